package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// BatchQuery is one statement of a batch.
type BatchQuery struct {
	SQL  string
	Args []any
}

// BatchExecutor runs bulk statements inside the current transaction.
// The seed command uses it to apply the schema and load fixtures.
type BatchExecutor struct {
	txManager *TxManager
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(txManager *TxManager) *BatchExecutor {
	return &BatchExecutor{txManager: txManager}
}

// ExecuteBatch sends all queries in a single round-trip.
func (e *BatchExecutor) ExecuteBatch(ctx context.Context, queries []BatchQuery) error {
	pgTx := e.txManager.GetTx(ctx)
	if pgTx == nil {
		return fmt.Errorf("ExecuteBatch requires transaction context")
	}

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := pgTx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range queries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch query %d failed: %w", i, err)
		}
	}
	return nil
}

// CopyFromSlice bulk-inserts rows with the COPY protocol.
func (e *BatchExecutor) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	pgTx := e.txManager.GetTx(ctx)
	if pgTx == nil {
		return 0, fmt.Errorf("CopyFromSlice requires transaction context")
	}

	return pgTx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
}
