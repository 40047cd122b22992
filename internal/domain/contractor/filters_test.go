package contractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contractor/internal/domain/filter"
)

var activeOnly = filter.Item{Dimension: DimContractor, Column: "is_active", Operator: filter.Equal, Value: true}

func TestFilters_Empty(t *testing.T) {
	assert.Equal(t, []filter.Item{activeOnly}, Filters(SearchCriteria{}))
}

func TestFilters_AllFields(t *testing.T) {
	c := SearchCriteria{
		ID:                 ptr("1"),
		ParentID:           ptr("0"),
		Name:               ptr("Tech"),
		FullName:           ptr("Tech Corp"),
		TaxNumber:          ptr("7701"),
		RegistrationNumber: ptr("1027"),
		Country:            ptr("RUS"),
		Industry:           &IndustryCriteria{ID: ptr(int64(3)), Name: ptr("Banking")},
		OrgForm:            ptr("LLC"),
	}

	want := []filter.Item{
		activeOnly,
		{Dimension: DimContractor, Column: "id", Operator: filter.Equal, Value: "1"},
		{Dimension: DimContractor, Column: "parent_id", Operator: filter.Equal, Value: "0"},
		{Dimension: DimContractor, Column: "name", Operator: filter.Like, Value: "%Tech%"},
		{Dimension: DimContractor, Column: "name_full", Operator: filter.Like, Value: "%Tech Corp%"},
		{Dimension: DimContractor, Column: "inn", Operator: filter.Like, Value: "%7701%"},
		{Dimension: DimContractor, Column: "ogrn", Operator: filter.Like, Value: "%1027%"},
		{Dimension: DimCountry, Column: "id", Operator: filter.Like, Value: "%RUS%"},
		{Dimension: DimIndustry, Column: "id", Operator: filter.Equal, Value: int64(3)},
		{Dimension: DimIndustry, Column: "name", Operator: filter.Equal, Value: "Banking"},
		{Dimension: DimOrgForm, Column: "name", Operator: filter.Like, Value: "%LLC%"},
	}

	assert.Equal(t, want, Filters(c))
}

func TestFilters_IndustryPartsAreIndependent(t *testing.T) {
	got := Filters(SearchCriteria{Industry: &IndustryCriteria{Name: ptr("Retail")}})

	assert.Equal(t, []filter.Item{
		activeOnly,
		{Dimension: DimIndustry, Column: "name", Operator: filter.Equal, Value: "Retail"},
	}, got)
}

func TestPage(t *testing.T) {
	assert.Equal(t, 10, Page{Number: 1, Size: 10}.Offset())
	assert.Equal(t, 0, Page{Number: 0, Size: 10}.Offset())

	assert.NoError(t, Page{Number: 0, Size: 1}.Validate())
	assert.Error(t, Page{Number: -1, Size: 10}.Validate())
	assert.Error(t, Page{Number: 0, Size: 0}.Validate())
}

func TestSearchable(t *testing.T) {
	assert.True(t, Searchable(DimContractor, "is_active"))
	assert.True(t, Searchable(DimContractor, "inn"))
	assert.True(t, Searchable(DimCountry, "id"))
	assert.True(t, Searchable(DimIndustry, "name"))
	assert.True(t, Searchable(DimOrgForm, "name"))

	assert.False(t, Searchable(DimCountry, "name"))
	assert.False(t, Searchable(DimOrgForm, "id"))
	assert.False(t, Searchable(DimContractor, "active_main_borrower"))
	assert.False(t, Searchable("bank", "id"))
}
