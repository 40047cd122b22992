package contractor

import (
	"context"
	"time"

	"contractor/internal/core/apperror"
	"contractor/internal/domain/filter"
)

// DefaultPageSize is used when the caller does not specify a size.
const DefaultPageSize = 10

// Page selects a window of search results. Number is zero-based.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows skipped: Number * Size.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Validate rejects negative pages and non-positive sizes.
func (p Page) Validate() error {
	if p.Number < 0 {
		return apperror.NewValidation("page must not be negative").WithDetail("page", p.Number)
	}
	if p.Size <= 0 {
		return apperror.NewValidation("size must be positive").WithDetail("size", p.Size)
	}
	return nil
}

// Repository persists contractors.
type Repository interface {
	// Create inserts a new contractor.
	Create(ctx context.Context, c *Contractor) error

	// Update rewrites mutable columns of an existing contractor.
	Update(ctx context.Context, c *Contractor) error

	// GetByID returns the contractor with lookups resolved, or a NotFound AppError.
	GetByID(ctx context.Context, id string) (*Contractor, error)

	// SetActive flips the soft-delete flag.
	SetActive(ctx context.Context, id string, active bool, actor string, at time.Time) error

	// SetMainBorrower stores the active_main_borrower flag.
	SetMainBorrower(ctx context.Context, id string, value bool, actor string, at time.Time) error
}

// Searcher executes a compiled filter set and returns one page of contractors
// with lookups resolved. Implementations differ only in how they render the
// filters; they must not add or drop predicates.
type Searcher interface {
	Search(ctx context.Context, filters []filter.Item, page Page) ([]Contractor, error)
}
