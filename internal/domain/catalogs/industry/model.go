// Package industry provides the industry dictionary.
package industry

import (
	"context"
	"strings"

	"contractor/internal/core/apperror"
)

// Industry is a dictionary entry referenced by contractor.industry.
// ID is assigned by the database on first save.
type Industry struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"isActive"`
}

func (i *Industry) Key() int64 { return i.ID }

func (i *Industry) Active() bool { return i.IsActive }

// Validate implements entity.Validatable.
func (i *Industry) Validate(ctx context.Context) error {
	if i.ID < 0 {
		return apperror.NewValidation("industry id must not be negative").WithDetail("field", "id")
	}
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewValidation("industry name is required").WithDetail("field", "name")
	}
	return nil
}
