// Package contractor provides the Contractor aggregate, role-scoped search and
// main-borrower tracking for the lending platform.
package contractor

import (
	"context"
	"regexp"
	"strings"

	"contractor/internal/core/apperror"
	"contractor/internal/core/entity"
)

var digitsOnlyRE = regexp.MustCompile(`^\d+$`)

// CountryRef is a resolved country lookup.
type CountryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IndustryRef is a resolved industry lookup.
type IndustryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrgFormRef is a resolved organisational form lookup.
type OrgFormRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Contractor is a business entity registered on the platform.
type Contractor struct {
	ID       string  `db:"id" json:"id"`
	ParentID *string `db:"parent_id" json:"parentId,omitempty"`
	Name     string  `db:"name" json:"name"`
	NameFull *string `db:"name_full" json:"nameFull,omitempty"`

	// INN is the taxpayer number, OGRN the state registration number.
	INN  *string `db:"inn" json:"inn,omitempty"`
	OGRN *string `db:"ogrn" json:"ogrn,omitempty"`

	CountryID  *string `db:"country" json:"-"`
	IndustryID *int64  `db:"industry" json:"-"`
	OrgFormID  *int64  `db:"org_form" json:"-"`

	ActiveMainBorrower bool `db:"active_main_borrower" json:"activeMainBorrower"`
	IsActive           bool `db:"is_active" json:"isActive"`

	entity.Audit

	// Resolved lookups, filled by readers that join the dimensions.
	Country  *CountryRef  `db:"-" json:"country,omitempty"`
	Industry *IndustryRef `db:"-" json:"industry,omitempty"`
	OrgForm  *OrgFormRef  `db:"-" json:"orgForm,omitempty"`
}

// Active implements entity.Activatable.
func (c *Contractor) Active() bool {
	return c.IsActive
}

// Validate implements entity.Validatable.
func (c *Contractor) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}

	if c.INN != nil && *c.INN != "" {
		if !digitsOnlyRE.MatchString(*c.INN) || (len(*c.INN) != 10 && len(*c.INN) != 12) {
			return apperror.NewValidation("INN must be 10 or 12 digits").WithDetail("field", "inn")
		}
	}

	if c.OGRN != nil && *c.OGRN != "" {
		if !digitsOnlyRE.MatchString(*c.OGRN) || (len(*c.OGRN) != 13 && len(*c.OGRN) != 15) {
			return apperror.NewValidation("OGRN must be 13 or 15 digits").WithDetail("field", "ogrn")
		}
	}

	if c.ParentID != nil && *c.ParentID == c.ID && c.ID != "" {
		return apperror.NewValidation("contractor cannot be its own parent").WithDetail("field", "parentId")
	}

	return nil
}

// applyUpdate copies the mutable fields of src onto c. Identity, audit
// columns and the main-borrower flag are left alone.
func (c *Contractor) applyUpdate(src *Contractor) {
	c.ParentID = src.ParentID
	c.Name = src.Name
	c.NameFull = src.NameFull
	c.INN = src.INN
	c.OGRN = src.OGRN
	c.CountryID = src.CountryID
	c.IndustryID = src.IndustryID
	c.OrgFormID = src.OrgFormID
	c.IsActive = src.IsActive
}

// MainBorrowerUpdate is the inbound notice that a contractor gained or lost main deals.
type MainBorrowerUpdate struct {
	ContractorID string `json:"contractor_id"`
	HasMainDeals bool   `json:"has_main_deals"`
}
