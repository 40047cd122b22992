package dto

import (
	"contractor/internal/domain/catalogs/country"
	"contractor/internal/domain/catalogs/industry"
	"contractor/internal/domain/catalogs/orgform"
)

// SaveCountryRequest is the body of PUT /country/save.
type SaveCountryRequest struct {
	ID       string `json:"id" binding:"required,len=3"`
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *SaveCountryRequest) ToEntity() *country.Country {
	return &country.Country{ID: r.ID, Name: r.Name, IsActive: activeOrDefault(r.IsActive)}
}

// SaveIndustryRequest is the body of PUT /industry/save. A missing id creates
// a new entry.
type SaveIndustryRequest struct {
	ID       int64  `json:"id" binding:"min=0"`
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *SaveIndustryRequest) ToEntity() *industry.Industry {
	return &industry.Industry{ID: r.ID, Name: r.Name, IsActive: activeOrDefault(r.IsActive)}
}

// SaveOrgFormRequest is the body of PUT /org-form/save.
type SaveOrgFormRequest struct {
	ID       int64  `json:"id" binding:"min=0"`
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// ToEntity converts DTO to domain entity.
func (r *SaveOrgFormRequest) ToEntity() *orgform.OrgForm {
	return &orgform.OrgForm{ID: r.ID, Name: r.Name, IsActive: activeOrDefault(r.IsActive)}
}

func activeOrDefault(v *bool) bool {
	return v == nil || *v
}
