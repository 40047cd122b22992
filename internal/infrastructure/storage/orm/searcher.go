package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contractor/internal/domain/contractor"
	"contractor/internal/domain/filter"
)

// Searcher is the specification-based search strategy.
type Searcher struct {
	db *gorm.DB
}

var _ contractor.Searcher = (*Searcher)(nil)

// NewSearcher creates a new gorm searcher.
func NewSearcher(db *gorm.DB) *Searcher {
	return &Searcher{db: db}
}

func (s *Searcher) query(ctx context.Context, filters []filter.Item, page contractor.Page) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&contractorRecord{}).
		Joins("Country").
		Joins("Industry").
		Joins("OrgForm").
		Scopes(Specs(filters)...).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}}).
		Offset(page.Offset()).
		Limit(page.Size)
}

// Search implements contractor.Searcher.
func (s *Searcher) Search(ctx context.Context, filters []filter.Item, page contractor.Page) ([]contractor.Contractor, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var records []contractorRecord
	if err := s.query(ctx, filters, page).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("find contractors: %w", err)
	}

	out := make([]contractor.Contractor, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}
