// Package config loads service configuration from the environment.
// A .env file in the working directory is applied first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDomesticCountry is the country restricted roles are narrowed to.
const DefaultDomesticCountry = "RUS"

// Config is the full service configuration shared by cmd/server and cmd/worker.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Search SearchConfig
	Worker WorkerConfig
}

// DBConfig configures the PostgreSQL pool.
type DBConfig struct {
	URL      string
	MaxConns int
}

// RedisConfig configures the stream broker.
type RedisConfig struct {
	URL                string
	MainBorrowerStream string
	ContractorStream   string
	ConsumerGroup      string
	ConsumerName       string
}

// JWTConfig configures access-token validation.
type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// SearchConfig configures role-scoped contractor search.
type SearchConfig struct {
	DomesticCountry string
}

// WorkerConfig configures background processing.
type WorkerConfig struct {
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	DLQTTL             time.Duration
	DLQMaxAttempts     int
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
		},
		Redis: RedisConfig{
			URL:                getEnv("REDIS_URL", "redis://localhost:6379/0"),
			MainBorrowerStream: getEnv("MAIN_BORROWER_STREAM", "deal.active-main-borrower"),
			ContractorStream:   getEnv("CONTRACTOR_STREAM", "contractors.contractor.update"),
			ConsumerGroup:      getEnv("CONSUMER_GROUP", "contractor"),
			ConsumerName:       getEnv("CONSUMER_NAME", hostname()),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getEnv("JWT_ISSUER", "contractor"),
			TTL:    getEnvDuration("JWT_TTL", 15*time.Minute),
		},
		Search: SearchConfig{
			DomesticCountry: getEnv("DOMESTIC_COUNTRY", DefaultDomesticCountry),
		},
		Worker: WorkerConfig{
			OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
			OutboxBatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 100),
			DLQTTL:             getEnvDuration("DLQ_TTL", time.Minute),
			DLQMaxAttempts:     getEnvInt("DLQ_MAX_ATTEMPTS", 5),
		},
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.DB.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "contractor-worker"
}
