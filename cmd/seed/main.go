// Package main provides a CLI tool for creating the schema and seeding the
// database with lookups and demo contractors.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"contractor/internal/config"
	"contractor/internal/infrastructure/storage/postgres"
	"contractor/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL, 5))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	batch := postgres.NewBatchExecutor(txManager)

	if err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return batch.ExecuteBatch(ctx, schema)
	}); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Infow("schema applied", "statements", len(schema))

	if err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return batch.ExecuteBatch(ctx, lookups)
	}); err != nil {
		log.Fatalw("failed to seed lookups", "error", err)
	}
	log.Info("lookups seeded")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoContractors(ctx, txManager, batch, log); err != nil {
			log.Fatalw("failed to seed demo contractors", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

var lookups = []postgres.BatchQuery{
	{SQL: `INSERT INTO country (id, name) VALUES ($1, $2), ($3, $4), ($5, $6) ON CONFLICT (id) DO NOTHING`,
		Args: []any{config.DefaultDomesticCountry, "Russia", "USA", "United States", "KAZ", "Kazakhstan"}},
	{SQL: `INSERT INTO industry (id, name) VALUES (1, 'Banking'), (2, 'Retail'), (3, 'Manufacturing') ON CONFLICT (id) DO NOTHING`},
	{SQL: `SELECT setval(pg_get_serial_sequence('industry', 'id'), (SELECT MAX(id) FROM industry))`},
	{SQL: `INSERT INTO org_form (id, name) VALUES (1, 'Limited Liability Company'), (2, 'Joint Stock Company') ON CONFLICT (id) DO NOTHING`},
	{SQL: `SELECT setval(pg_get_serial_sequence('org_form', 'id'), (SELECT MAX(id) FROM org_form))`},
}

var contractorSeedColumns = []string{
	"id", "name", "name_full", "inn", "ogrn", "country", "industry", "org_form", "is_active", "create_date", "create_user_id",
}

func seedDemoContractors(ctx context.Context, txManager *postgres.TxManager, batch *postgres.BatchExecutor, log *logger.Logger) error {
	var exists bool
	if err := txManager.GetQuerier(ctx).
		QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contractor)`).
		Scan(&exists); err != nil {
		return fmt.Errorf("check contractors: %w", err)
	}
	if exists {
		log.Info("contractors already present, skipping demo data")
		return nil
	}

	now := time.Now().UTC()
	rows := [][]any{
		{"1", "TechCorp Inc", "TechCorp Incorporated", "7701234567", "1027700132195", "USA", int64(1), int64(1), true, now, "seed"},
		{"2", "Volga Trade", "Volga Trade LLC", "6315000001", "1026300000001", "RUS", int64(2), int64(1), true, now, "seed"},
		{"3", "Ural Steel", "Ural Steel JSC", "6658000002", "1026600000002", "RUS", int64(3), int64(2), true, now, "seed"},
		{"4", "Steppe Bank", "Steppe Bank JSC", nil, nil, "KAZ", int64(1), int64(2), true, now, "seed"},
		{"5", "Closed Co", nil, nil, nil, "RUS", nil, nil, false, now, "seed"},
	}

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := batch.CopyFromSlice(ctx, "contractor", contractorSeedColumns, rows)
		if err != nil {
			return fmt.Errorf("copy contractors: %w", err)
		}
		log.Infow("demo contractors seeded", "count", n)
		return nil
	})
}
