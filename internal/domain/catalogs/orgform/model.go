// Package orgform provides the organisational form dictionary
// (LLC, JSC and so on).
package orgform

import (
	"context"
	"strings"

	"contractor/internal/core/apperror"
)

// OrgForm is a dictionary entry referenced by contractor.org_form.
// ID is assigned by the database on first save.
type OrgForm struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"isActive"`
}

func (o *OrgForm) Key() int64 { return o.ID }

func (o *OrgForm) Active() bool { return o.IsActive }

func (o *OrgForm) Validate(ctx context.Context) error {
	if o.ID < 0 {
		return apperror.NewValidation("org form id must not be negative").WithDetail("field", "id")
	}
	if strings.TrimSpace(o.Name) == "" {
		return apperror.NewValidation("org form name is required").WithDetail("field", "name")
	}
	return nil
}
