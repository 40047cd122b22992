package contractor

// IndustryCriteria filters by the joined industry. Both parts are optional and ANDed.
type IndustryCriteria struct {
	ID   *int64
	Name *string
}

func (i *IndustryCriteria) empty() bool {
	return i == nil || (i.ID == nil && i.Name == nil)
}

// SearchCriteria is the caller's set of optional contractor filters.
// A nil field contributes no predicate. Values are never mutated after construction.
type SearchCriteria struct {
	ID                 *string
	ParentID           *string
	Name               *string
	FullName           *string
	TaxNumber          *string
	RegistrationNumber *string
	Country            *string
	Industry           *IndustryCriteria
	OrgForm            *string
}

// CountryOnly returns criteria restricted to a single country code.
func CountryOnly(code string) SearchCriteria {
	return SearchCriteria{Country: &code}
}

// IsEmpty reports whether no filter is present.
func (c SearchCriteria) IsEmpty() bool {
	return c.Country == nil && c.emptyIgnoringCountry()
}

// IsEmptyExceptCountry reports whether country is the only filter present.
func (c SearchCriteria) IsEmptyExceptCountry() bool {
	return c.Country != nil && c.emptyIgnoringCountry()
}

func (c SearchCriteria) emptyIgnoringCountry() bool {
	return c.ID == nil &&
		c.ParentID == nil &&
		c.Name == nil &&
		c.FullName == nil &&
		c.TaxNumber == nil &&
		c.RegistrationNumber == nil &&
		c.Industry.empty() &&
		c.OrgForm == nil
}
