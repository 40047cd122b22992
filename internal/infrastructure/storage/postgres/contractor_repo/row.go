// Package contractor_repo provides contractor persistence and the raw SQL
// search strategy.
package contractor_repo

import (
	"contractor/internal/domain/contractor"
)

// contractorRow is a contractor joined with the display names of its lookups.
type contractorRow struct {
	contractor.Contractor

	CountryName  *string `db:"country_name"`
	IndustryName *string `db:"industry_name"`
	OrgFormName  *string `db:"org_form_name"`
}

// toContractor resolves lookup references. A reference is present whenever
// the foreign key is set; a dangling key yields an empty name.
func (r *contractorRow) toContractor() contractor.Contractor {
	c := r.Contractor

	if c.CountryID != nil {
		c.Country = &contractor.CountryRef{ID: *c.CountryID, Name: deref(r.CountryName)}
	}
	if c.IndustryID != nil {
		c.Industry = &contractor.IndustryRef{ID: *c.IndustryID, Name: deref(r.IndustryName)}
	}
	if c.OrgFormID != nil {
		c.OrgForm = &contractor.OrgFormRef{ID: *c.OrgFormID, Name: deref(r.OrgFormName)}
	}

	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
