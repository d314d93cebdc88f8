package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Catalog sources.
const (
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

var (
	ErrUnknownCatalogSource = errors.New("config: unknown catalog source")
	ErrPostgresRequired     = errors.New("config: postgres settings are required for the postgres catalog source")
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_PORT"` specify the environment variable name.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`      // debug, info, warn, error
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Postgres   PostgresConfig
	Catalog    CatalogConfig
	Schema     SchemaConfig
	Session    SessionConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port         string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle  time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// PostgresConfig holds PostgreSQL connection details. Only read when the
// catalog source is postgres.
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DBName   string `envconfig:"POSTGRES_DBNAME"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// CatalogConfig selects where prices and accessories come from.
type CatalogConfig struct {
	Source          string `envconfig:"CATALOG_SOURCE" default:"file"`
	PricesFile      string `envconfig:"CATALOG_PRICES_FILE" default:"configs/catalog/product-prices.json"`
	AccessoriesFile string `envconfig:"CATALOG_ACCESSORIES_FILE" default:"configs/catalog/accessories.json"`
}

type SchemaConfig struct {
	Dir string `envconfig:"SCHEMA_DIR" default:"configs/schemas"`
}

// SessionConfig bounds the in-memory configuration sessions.
type SessionConfig struct {
	FetchTimeout time.Duration `envconfig:"SESSION_FETCH_TIMEOUT" default:"10s"`
	MaxSessions  int           `envconfig:"SESSION_MAX" default:"10000"`
}

// Load initializes the configuration from environment variables.
// It should be called once during application startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceFile:
		return nil
	case SourcePostgres:
		pg := c.Postgres
		if pg.Host == "" || pg.User == "" || pg.Password == "" || pg.DBName == "" {
			return ErrPostgresRequired
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownCatalogSource, c.Catalog.Source)
}
