package contractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSearchCriteria_IsEmpty(t *testing.T) {
	tests := []struct {
		name            string
		criteria        SearchCriteria
		wantEmpty       bool
		wantCountryOnly bool
	}{
		{
			name:      "nothing set",
			criteria:  SearchCriteria{},
			wantEmpty: true,
		},
		{
			name:            "country only",
			criteria:        SearchCriteria{Country: ptr("RUS")},
			wantCountryOnly: true,
		},
		{
			name:     "name only",
			criteria: SearchCriteria{Name: ptr("ACME")},
		},
		{
			name:     "country and name",
			criteria: SearchCriteria{Country: ptr("RUS"), Name: ptr("ACME")},
		},
		{
			name:      "industry with no parts counts as absent",
			criteria:  SearchCriteria{Industry: &IndustryCriteria{}},
			wantEmpty: true,
		},
		{
			name:     "industry id",
			criteria: SearchCriteria{Industry: &IndustryCriteria{ID: ptr(int64(7))}},
		},
		{
			name:     "country and industry name",
			criteria: SearchCriteria{Country: ptr("RUS"), Industry: &IndustryCriteria{Name: ptr("Banking")}},
		},
		{
			name:     "empty string is still a present filter",
			criteria: SearchCriteria{OrgForm: ptr("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEmpty, tt.criteria.IsEmpty())
			assert.Equal(t, tt.wantCountryOnly, tt.criteria.IsEmptyExceptCountry())
		})
	}
}

func TestSearchCriteria_PredicatesAreExclusive(t *testing.T) {
	for _, c := range []SearchCriteria{
		{},
		{Country: ptr("RUS")},
		{TaxNumber: ptr("77")},
		{Country: ptr("RUS"), RegistrationNumber: ptr("1")},
	} {
		assert.False(t, c.IsEmpty() && c.IsEmptyExceptCountry())
	}
}

func TestWildcard(t *testing.T) {
	assert.Equal(t, "%ACME%", Wildcard("ACME"))
	assert.Equal(t, "%%", Wildcard(""))
	assert.Equal(t, "%50%%", Wildcard("50%"))
}
