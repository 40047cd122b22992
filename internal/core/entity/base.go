// Package entity holds building blocks shared by persisted domain entities.
package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Activatable is implemented by soft-deletable entities.
type Activatable interface {
	Active() bool
}

// Audit holds the creation/modification columns maintained for contractors.
type Audit struct {
	CreateDate   time.Time  `db:"create_date" json:"createDate"`
	ModifyDate   *time.Time `db:"modify_date" json:"modifyDate,omitempty"`
	CreateUserID string     `db:"create_user_id" json:"createUserId"`
	ModifyUserID *string    `db:"modify_user_id" json:"modifyUserId,omitempty"`
}

// StampCreated fills creation columns.
func (a *Audit) StampCreated(actor string, now time.Time) {
	a.CreateDate = now
	a.CreateUserID = actor
}

// StampModified fills modification columns.
func (a *Audit) StampModified(actor string, now time.Time) {
	a.ModifyDate = &now
	a.ModifyUserID = &actor
}
