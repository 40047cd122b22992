// Package orm provides the gorm-based search strategy. Filters are applied
// as composable specifications over the contractor table and its lookup
// associations.
package orm

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"contractor/pkg/logger"
)

// zapWriter routes gorm's printf-style logger into zap.
type zapWriter struct {
	log *logger.Logger
}

func (w zapWriter) Printf(format string, args ...any) {
	w.log.Debugf(format, args...)
}

func gormConfig(log *logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(zapWriter{log: log.WithComponent("gorm")}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		SkipDefaultTransaction: true,
	}
}

// Open opens gorm on any dialector (tests use an in-memory SQLite one).
func Open(dialector gorm.Dialector, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// OpenPostgres opens gorm over an existing database/sql handle, typically
// the pgx pool exposed through pgx/stdlib.
func OpenPostgres(conn *sql.DB, log *logger.Logger) (*gorm.DB, error) {
	return Open(postgres.New(postgres.Config{Conn: conn}), log)
}

// AutoMigrate creates the contractor schema. Used for SQLite fixtures; the
// Postgres schema is owned by cmd/seed.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&countryRecord{}, &industryRecord{}, &orgFormRecord{}, &contractorRecord{})
}
