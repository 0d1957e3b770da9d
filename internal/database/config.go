package database

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/tilegen/internal/config"
)

// Config holds database connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string

	SQLitePath string

	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config for a SQLite file.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// ConnString formats the lib/pq keyword/value connection string.
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// FromAppConfig maps the database section of the application config onto
// driver settings. Unset postgres fields keep DefaultPostgresConfig values.
func FromAppConfig(cfg config.DatabaseConfig) Config {
	if cfg.Driver != string(DialectPostgres) {
		return DefaultConfig(cfg.SQLitePath)
	}

	pg := DefaultPostgresConfig()
	if cfg.Postgres.Host != "" {
		pg.Host = cfg.Postgres.Host
	}
	if cfg.Postgres.Port > 0 {
		pg.Port = cfg.Postgres.Port
	}
	pg.User = cfg.Postgres.User
	pg.Password = cfg.Postgres.Password
	pg.Database = cfg.Postgres.Database
	if cfg.Postgres.SSLMode != "" {
		pg.SSLMode = cfg.Postgres.SSLMode
	}
	return Config{Driver: cfg.Driver, Postgres: pg}
}
