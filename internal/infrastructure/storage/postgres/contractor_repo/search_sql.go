package contractor_repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"contractor/internal/domain/contractor"
	"contractor/internal/domain/filter"
)

// aliases maps search dimensions to the table aliases of joinedSelect.
var aliases = map[filter.Dimension]string{
	contractor.DimContractor: "c",
	contractor.DimCountry:    "co",
	contractor.DimIndustry:   "i",
	contractor.DimOrgForm:    "org",
}

// contractorSelectColumns is shared by search and GetByID so both return the
// same contractor fields, audit columns included.
var contractorSelectColumns = []string{
	"c.id", "c.parent_id", "c.name", "c.name_full", "c.inn", "c.ogrn",
	"c.country", "c.industry", "c.org_form", "c.active_main_borrower", "c.is_active",
	"co.name AS country_name",
	"i.name AS industry_name",
	"org.name AS org_form_name",
	"c.create_date", "c.modify_date", "c.create_user_id", "c.modify_user_id",
}

// joinedSelect selects contractors with their lookup names. Every lookup is
// LEFT JOINed so contractors without a dimension are still returned.
func joinedSelect(placeholder squirrel.PlaceholderFormat) squirrel.SelectBuilder {
	return squirrel.StatementBuilder.
		PlaceholderFormat(placeholder).
		Select(contractorSelectColumns...).
		From("contractor c").
		LeftJoin("country co ON c.country = co.id").
		LeftJoin("industry i ON c.industry = i.id").
		LeftJoin("org_form org ON c.org_form = org.id")
}

// BuildSearchQuery renders filters as a parameterised SELECT ordered by
// contractor id, with LIMIT page.Size and OFFSET page.Number*page.Size.
func BuildSearchQuery(items []filter.Item, page contractor.Page, placeholder squirrel.PlaceholderFormat) (string, []any, error) {
	if err := page.Validate(); err != nil {
		return "", nil, err
	}

	q := joinedSelect(placeholder)

	for _, item := range items {
		alias, ok := aliases[item.Dimension]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter dimension: %s", item.Dimension)
		}
		// Columns are interpolated, so only those Filters can emit are accepted.
		if !contractor.Searchable(item.Dimension, item.Column) {
			return "", nil, fmt.Errorf("invalid filter column: %s.%s", item.Dimension, item.Column)
		}

		col := alias + "." + item.Column
		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{col: item.Value})
		case filter.Like:
			q = q.Where(squirrel.Like{col: item.Value})
		default:
			return "", nil, fmt.Errorf("unsupported filter operator: %s", item.Operator)
		}
	}

	return q.
		OrderBy("c.id").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset())).
		ToSql()
}

// SQLSearcher is the raw SQL search strategy. It runs over any database/sql
// handle; Postgres connections come from the pgx pool via pgx/stdlib.
type SQLSearcher struct {
	db          *sql.DB
	placeholder squirrel.PlaceholderFormat
}

var _ contractor.Searcher = (*SQLSearcher)(nil)

// NewSQLSearcher creates a searcher. Use squirrel.Dollar for Postgres and
// squirrel.Question for SQLite.
func NewSQLSearcher(db *sql.DB, placeholder squirrel.PlaceholderFormat) *SQLSearcher {
	return &SQLSearcher{db: db, placeholder: placeholder}
}

// Search implements contractor.Searcher.
func (s *SQLSearcher) Search(ctx context.Context, filters []filter.Item, page contractor.Page) ([]contractor.Contractor, error) {
	query, args, err := BuildSearchQuery(filters, page, s.placeholder)
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	var rows []*contractorRow
	if err := sqlscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select contractors: %w", err)
	}

	out := make([]contractor.Contractor, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toContractor())
	}
	return out, nil
}
