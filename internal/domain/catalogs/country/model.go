// Package country provides the country dictionary. Countries are keyed by
// their ISO 3166 alpha-3 code.
package country

import (
	"context"
	"strings"

	"contractor/internal/core/apperror"
)

// Country is a dictionary entry referenced by contractor.country.
type Country struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"isActive"`
}

// Key implements domain.Lookup.
func (c *Country) Key() string { return c.ID }

// Active implements entity.Activatable.
func (c *Country) Active() bool { return c.IsActive }

// Validate implements entity.Validatable.
func (c *Country) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.ID) == "" {
		return apperror.NewValidation("country id is required").WithDetail("field", "id")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("country name is required").WithDetail("field", "name")
	}
	return nil
}
