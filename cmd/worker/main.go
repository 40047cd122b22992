// Package main is the entry point for the contractor background worker.
// It relays the outbox to Redis, consumes main-borrower notices and
// redrives their dead letters.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"contractor/internal/config"
	appctx "contractor/internal/core/context"
	"contractor/internal/domain/contractor"
	"contractor/internal/infrastructure/messaging/redisstream"
	"contractor/internal/infrastructure/storage/postgres"
	"contractor/internal/infrastructure/storage/postgres/contractor_repo"
	"contractor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())

	log.Info("starting contractor worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.URL, int32(cfg.DB.MaxConns)))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	rdb, err := redisstream.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	defer rdb.Close()

	txManager := postgres.NewTxManager(pool)

	contractors := contractor.NewService(contractor.ServiceConfig{
		Repo:      contractor_repo.NewContractorRepo(txManager),
		TxManager: txManager,
		Events:    postgres.NewOutboxPublisher(txManager),
		Policy:    contractor.DefaultSearchPolicy(cfg.Search.DomesticCountry),
	})

	relay := postgres.NewOutboxRelay(txManager, cfg.Worker.OutboxBatchSize,
		redisstream.NewPublisher(rdb, cfg.Redis.ContractorStream, 100_000))

	consumer := redisstream.NewConsumer(rdb, redisstream.ConsumerConfig{
		Stream:   cfg.Redis.MainBorrowerStream,
		Group:    cfg.Redis.ConsumerGroup,
		Consumer: cfg.Redis.ConsumerName,
	}, contractors)

	scheduler := redisstream.NewScheduler(redisstream.NewRedriver(rdb, redisstream.RedriveConfig{
		Stream:      cfg.Redis.MainBorrowerStream,
		TTL:         cfg.Worker.DLQTTL,
		MaxAttempts: cfg.Worker.DLQMaxAttempts,
	}), cfg.Worker.DLQTTL)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalw("failed to start dlq scheduler", "error", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		runOutbox(ctx, relay, cfg.Worker.OutboxPollInterval, log.WithComponent("outbox"))
	}()
	go func() {
		defer wg.Done()
		if err := consumer.Run(ctx); err != nil {
			log.Errorw("main borrower consumer stopped", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("shutting down worker...")
	cancel()
	scheduler.Stop()
	wg.Wait()
	log.Info("worker stopped")
}

// runOutbox drains the outbox every interval and moves exhausted messages to
// the dead letter table once an hour.
func runOutbox(ctx context.Context, relay *postgres.OutboxRelay, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(time.Hour)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := relay.ProcessBatch(ctx)
			if err != nil {
				log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debugw("outbox batch published", "count", n)
			}
		case <-cleanupTicker.C:
			moved, err := relay.MoveToDLQ(ctx)
			if err != nil {
				log.Errorw("outbox dlq move failed", "error", err)
				continue
			}
			if moved > 0 {
				log.Warnw("outbox messages moved to dlq", "count", moved)
			}
		}
	}
}
