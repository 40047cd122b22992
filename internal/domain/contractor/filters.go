package contractor

import (
	"contractor/internal/domain/filter"
)

// Dimensions of the contractor search. Every builder joins the three lookup
// dimensions to the contractor table with a LEFT JOIN.
const (
	DimContractor filter.Dimension = "contractor"
	DimCountry    filter.Dimension = "country"
	DimIndustry   filter.Dimension = "industry"
	DimOrgForm    filter.Dimension = "org_form"
)

// fieldRule maps one criteria field onto a column and a match kind.
type fieldRule struct {
	dimension filter.Dimension
	column    string
	operator  filter.ComparisonType
	value     func(SearchCriteria) (any, bool)
}

// searchFields is the single definition of contractor search semantics.
// Both the ORM and the raw SQL builders render exactly this list.
var searchFields = []fieldRule{
	{DimContractor, "id", filter.Equal, str(func(c SearchCriteria) *string { return c.ID })},
	{DimContractor, "parent_id", filter.Equal, str(func(c SearchCriteria) *string { return c.ParentID })},
	{DimContractor, "name", filter.Like, str(func(c SearchCriteria) *string { return c.Name })},
	{DimContractor, "name_full", filter.Like, str(func(c SearchCriteria) *string { return c.FullName })},
	{DimContractor, "inn", filter.Like, str(func(c SearchCriteria) *string { return c.TaxNumber })},
	{DimContractor, "ogrn", filter.Like, str(func(c SearchCriteria) *string { return c.RegistrationNumber })},
	{DimCountry, "id", filter.Like, str(func(c SearchCriteria) *string { return c.Country })},
	{DimIndustry, "id", filter.Equal, industryID},
	{DimIndustry, "name", filter.Equal, industryName},
	{DimOrgForm, "name", filter.Like, str(func(c SearchCriteria) *string { return c.OrgForm })},
}

// Filters compiles criteria into ANDed predicates. The active-flag predicate
// is always first; LIKE values are already wrapped with Wildcard.
func Filters(c SearchCriteria) []filter.Item {
	items := []filter.Item{{
		Dimension: DimContractor,
		Column:    "is_active",
		Operator:  filter.Equal,
		Value:     true,
	}}

	for _, f := range searchFields {
		v, ok := f.value(c)
		if !ok {
			continue
		}
		if f.operator == filter.Like {
			v = Wildcard(v.(string))
		}
		items = append(items, filter.Item{
			Dimension: f.dimension,
			Column:    f.column,
			Operator:  f.operator,
			Value:     v,
		})
	}

	return items
}

func str(get func(SearchCriteria) *string) func(SearchCriteria) (any, bool) {
	return func(c SearchCriteria) (any, bool) {
		if p := get(c); p != nil {
			return *p, true
		}
		return nil, false
	}
}

func industryID(c SearchCriteria) (any, bool) {
	if c.Industry != nil && c.Industry.ID != nil {
		return *c.Industry.ID, true
	}
	return nil, false
}

func industryName(c SearchCriteria) (any, bool) {
	if c.Industry != nil && c.Industry.Name != nil {
		return *c.Industry.Name, true
	}
	return nil, false
}

// Searchable reports whether column of dim can appear in a compiled filter.
// Builders use it to reject items that did not come from Filters.
func Searchable(dim filter.Dimension, column string) bool {
	if dim == DimContractor && column == "is_active" {
		return true
	}
	for _, f := range searchFields {
		if f.dimension == dim && f.column == column {
			return true
		}
	}
	return false
}
