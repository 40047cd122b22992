// Package catalog_repo provides PostgreSQL implementations of the lookup
// catalog repositories (country, industry, org form).
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"contractor/internal/core/apperror"
	"contractor/internal/domain"
	"contractor/internal/infrastructure/storage/postgres"
)

const pgUniqueViolation = "23505"

// BaseLookupRepo provides CRUD for a lookup table with columns
// id, name and is_active. Embed it in specific repositories.
type BaseLookupRepo[T domain.Lookup[K], K comparable] struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
	newFn      func() T

	// assignKey is set for tables whose id is generated by the database.
	// Create then omits a zero id and writes the returned one back.
	assignKey func(T, K)
}

// NewBaseLookupRepo creates a repository for a table with caller-assigned keys.
func NewBaseLookupRepo[T domain.Lookup[K], K comparable](
	txManager *postgres.TxManager,
	tableName string,
	selectCols []string,
	newFn func() T,
) *BaseLookupRepo[T, K] {
	return &BaseLookupRepo[T, K]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// WithGeneratedKey marks the id column as database-generated.
func (r *BaseLookupRepo[T, K]) WithGeneratedKey(assign func(T, K)) *BaseLookupRepo[T, K] {
	r.assignKey = assign
	return r
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseLookupRepo[T, K]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseLookupRepo[T, K]) generated(entity T) bool {
	var zero K
	return r.assignKey != nil && entity.Key() == zero
}

func (r *BaseLookupRepo[T, K]) buildInsert(entity T) (string, []any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no db tags found in entity")
	}

	generated := r.generated(entity)

	cols := make([]string, 0, len(r.selectCols))
	values := make([]any, 0, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" && generated {
			continue
		}
		if val, ok := data[col]; ok {
			cols = append(cols, col)
			values = append(values, val)
		}
	}

	q := r.Builder().
		Insert(r.tableName).
		Columns(cols...).
		Values(values...)

	if generated {
		q = q.Suffix("RETURNING id")
	}
	return q.ToSql()
}

// Create inserts a new entity using its "db" tags.
func (r *BaseLookupRepo[T, K]) Create(ctx context.Context, entity T) error {
	sql, args, err := r.buildInsert(entity)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)

	if r.generated(entity) {
		var key K
		if err := querier.QueryRow(ctx, sql, args...).Scan(&key); err != nil {
			return r.mapWriteErr(err, "insert")
		}
		r.assignKey(entity, key)
		return nil
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return r.mapWriteErr(err, "insert")
	}
	return nil
}

func (r *BaseLookupRepo[T, K]) buildUpdate(entity T) (string, []any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return "", nil, fmt.Errorf("no db tags found in entity")
	}

	q := r.Builder().Update(r.tableName)
	for _, col := range r.selectCols {
		if col == "id" {
			continue
		}
		if val, ok := data[col]; ok {
			q = q.Set(col, val)
		}
	}
	return q.Where(squirrel.Eq{"id": entity.Key()}).ToSql()
}

// Update overwrites all columns except id.
func (r *BaseLookupRepo[T, K]) Update(ctx context.Context, entity T) error {
	sql, args, err := r.buildUpdate(entity)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapWriteErr(err, "update")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entity.Key())
	}
	return nil
}

func (r *BaseLookupRepo[T, K]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID regardless of its active flag.
func (r *BaseLookupRepo[T, K]) GetByID(ctx context.Context, key K) (T, error) {
	entity := r.newFn()

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, key)
		}
		return entity, fmt.Errorf("get by id: %w", err)
	}
	return entity, nil
}

func (r *BaseLookupRepo[T, K]) buildListActive() (string, []any, error) {
	return r.baseSelect().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id").
		ToSql()
}

// ListActive returns active rows ordered by id.
func (r *BaseLookupRepo[T, K]) ListActive(ctx context.Context) ([]T, error) {
	sql, args, err := r.buildListActive()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []T
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return items, nil
}

func (r *BaseLookupRepo[T, K]) buildSetActive(key K, active bool) (string, []any, error) {
	return r.Builder().
		Update(r.tableName).
		Set("is_active", active).
		Where(squirrel.Eq{"id": key}).
		ToSql()
}

// SetActive sets or clears the active flag (soft delete).
func (r *BaseLookupRepo[T, K]) SetActive(ctx context.Context, key K, active bool) error {
	sql, args, err := r.buildSetActive(key, active)
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, key)
	}
	return nil
}

func (r *BaseLookupRepo[T, K]) mapWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperror.NewConflict(fmt.Sprintf("%s already exists", r.tableName)).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return fmt.Errorf("%s %s: %w", op, r.tableName, err)
}
