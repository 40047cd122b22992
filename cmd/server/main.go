// Package main is the entry point for the contractor API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Masterminds/squirrel"

	"contractor/internal/config"
	"contractor/internal/domain/auth"
	"contractor/internal/domain/catalogs/country"
	"contractor/internal/domain/catalogs/industry"
	"contractor/internal/domain/catalogs/orgform"
	"contractor/internal/domain/contractor"
	"contractor/internal/infrastructure/http/v1"
	"contractor/internal/infrastructure/http/v1/dto"
	"contractor/internal/infrastructure/http/v1/handlers"
	"contractor/internal/infrastructure/messaging/redisstream"
	"contractor/internal/infrastructure/storage/orm"
	"contractor/internal/infrastructure/storage/postgres"
	"contractor/internal/infrastructure/storage/postgres/catalog_repo"
	"contractor/internal/infrastructure/storage/postgres/contractor_repo"
	"contractor/pkg/logger"
)

const version = "1.0.0"

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

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting contractor server", "version", version, "env", cfg.Env)

	// --- Storage ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.URL, int32(cfg.DB.MaxConns)))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	sqlDB := pool.StdDB()
	defer sqlDB.Close()

	gormDB, err := orm.OpenPostgres(sqlDB, log)
	if err != nil {
		log.Fatalw("failed to open orm", "error", err)
	}

	// --- Broker (readiness only; the worker owns the streams) ---
	rdb, err := redisstream.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	defer rdb.Close()

	// --- Domain services ---
	contractors := contractor.NewService(contractor.ServiceConfig{
		Repo:      contractor_repo.NewContractorRepo(txManager),
		TxManager: txManager,
		Events:    postgres.NewOutboxPublisher(txManager),
		Policy:    contractor.DefaultSearchPolicy(cfg.Search.DomesticCountry),
		ORM:       orm.NewSearcher(gormDB),
		SQL:       contractor_repo.NewSQLSearcher(sqlDB, squirrel.Dollar),
	})
	countries := country.NewService(catalog_repo.NewCountryRepo(txManager), txManager)
	industries := industry.NewService(catalog_repo.NewIndustryRepo(txManager), txManager)
	orgForms := orgform.NewService(catalog_repo.NewOrgFormRepo(txManager), txManager)

	// --- HTTP ---
	if err := dto.RegisterValidators(); err != nil {
		log.Fatalw("failed to register validators", "error", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		AccessTokenTTL: cfg.JWT.TTL,
	})

	health := handlers.NewHealthHandler(version,
		map[string]handlers.Pinger{
			"database": pool,
			"redis":    handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		func() map[string]any {
			stat := pool.Stat()
			return map[string]any{
				"total_conns":    stat.TotalConns(),
				"acquired_conns": stat.AcquiredConns(),
				"idle_conns":     stat.IdleConns(),
				"max_conns":      stat.MaxConns(),
			}
		},
	)

	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		Contractors:  contractors,
		Countries:    countries,
		Industries:   industries,
		OrgForms:     orgForms,
		Health:       health,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	postgres.LogPoolStats(ctx, pool)
	log.Info("server stopped")
}
