package contractor_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"contractor/internal/core/apperror"
	"contractor/internal/domain/contractor"
	"contractor/internal/infrastructure/storage/postgres"
)

const (
	contractorTable = "contractor"

	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

var contractorColumns = postgres.ExtractDBColumns[contractor.Contractor]()

// ContractorRepo implements contractor.Repository on PostgreSQL.
type ContractorRepo struct {
	txManager *postgres.TxManager
}

var _ contractor.Repository = (*ContractorRepo)(nil)

// NewContractorRepo creates a new contractor repository.
func NewContractorRepo(txManager *postgres.TxManager) *ContractorRepo {
	return &ContractorRepo{txManager: txManager}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func buildInsert(c *contractor.Contractor) (string, []any, error) {
	data := postgres.StructToMap(c)

	values := make([]any, 0, len(contractorColumns))
	for _, col := range contractorColumns {
		values = append(values, data[col])
	}

	return builder().
		Insert(contractorTable).
		Columns(contractorColumns...).
		Values(values...).
		ToSql()
}

// Create inserts a new contractor.
func (r *ContractorRepo) Create(ctx context.Context, c *contractor.Contractor) error {
	sql, args, err := buildInsert(c)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return mapWriteErr(err, "insert")
	}
	return nil
}

func buildUpdate(c *contractor.Contractor) (string, []any, error) {
	return builder().
		Update(contractorTable).
		Set("parent_id", c.ParentID).
		Set("name", c.Name).
		Set("name_full", c.NameFull).
		Set("inn", c.INN).
		Set("ogrn", c.OGRN).
		Set("country", c.CountryID).
		Set("industry", c.IndustryID).
		Set("org_form", c.OrgFormID).
		Set("is_active", c.IsActive).
		Set("modify_date", c.ModifyDate).
		Set("modify_user_id", c.ModifyUserID).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
}

// Update rewrites the mutable columns. Creation audit columns and the
// main-borrower flag are never touched here.
func (r *ContractorRepo) Update(ctx context.Context, c *contractor.Contractor) error {
	sql, args, err := buildUpdate(c)
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapWriteErr(err, "update")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(contractorTable, c.ID)
	}
	return nil
}

func buildGetByID(contractorID string) (string, []any, error) {
	return joinedSelect(squirrel.Dollar).
		Where(squirrel.Eq{"c.id": contractorID}).
		Limit(1).
		ToSql()
}

// GetByID returns the contractor with lookups resolved, active or not.
func (r *ContractorRepo) GetByID(ctx context.Context, contractorID string) (*contractor.Contractor, error) {
	sql, args, err := buildGetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row contractorRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(contractorTable, contractorID)
		}
		return nil, fmt.Errorf("get contractor: %w", err)
	}

	c := row.toContractor()
	return &c, nil
}

func buildSetFlag(contractorID, column string, value bool, actor string, at time.Time) (string, []any, error) {
	return builder().
		Update(contractorTable).
		Set(column, value).
		Set("modify_date", at).
		Set("modify_user_id", actor).
		Where(squirrel.Eq{"id": contractorID}).
		ToSql()
}

func (r *ContractorRepo) setFlag(ctx context.Context, contractorID, column string, value bool, actor string, at time.Time) error {
	sql, args, err := buildSetFlag(contractorID, column, value, actor, at)
	if err != nil {
		return fmt.Errorf("build set %s: %w", column, err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(contractorTable, contractorID)
	}
	return nil
}

// SetActive sets or clears the active flag (soft delete).
func (r *ContractorRepo) SetActive(ctx context.Context, contractorID string, active bool, actor string, at time.Time) error {
	return r.setFlag(ctx, contractorID, "is_active", active, actor, at)
}

// SetMainBorrower stores the active_main_borrower flag.
func (r *ContractorRepo) SetMainBorrower(ctx context.Context, contractorID string, value bool, actor string, at time.Time) error {
	return r.setFlag(ctx, contractorID, "active_main_borrower", value, actor, at)
}

// mapWriteErr turns constraint violations into client errors. A foreign key
// violation means the payload references a missing parent or lookup.
func mapWriteErr(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return apperror.NewValidation("referenced contractor or lookup does not exist").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgUniqueViolation:
			return apperror.NewConflict("contractor already exists").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return fmt.Errorf("%s %s: %w", op, contractorTable, err)
}
