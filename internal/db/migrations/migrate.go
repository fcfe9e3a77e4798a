// Package migrations applies the embedded SQL schema migrations with a
// bounded retry budget, so the application container can start before the
// database is reachable.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/CatDevelop/exchange-tochka/config"
	"github.com/CatDevelop/exchange-tochka/internal/constants"
	"github.com/CatDevelop/exchange-tochka/internal/logger"
)

//go:embed sql/*.sql
var migrationFS embed.FS

// Config holds migration configuration
type Config struct {
	DatabaseURL   string
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the default retry budget. The delay matches the
// production topology where the database container can take minutes to come up.
func DefaultConfig() Config {
	return Config{
		RetryAttempts: 5,
		RetryDelay:    300 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// the defaults
func ConfigFromEnv() Config {
	def := DefaultConfig()
	return Config{
		DatabaseURL:   URLFromEnv(),
		RetryAttempts: config.GetEnvInt(constants.EnvMigrateRetries, def.RetryAttempts),
		RetryDelay:    config.GetEnvDuration(constants.EnvMigrateRetryWait, def.RetryDelay),
	}
}

// URLFromEnv builds the database URL from the DB_* environment variables
func URLFromEnv() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.GetEnv(constants.EnvDBUser, "postgres"),
		config.GetEnv(constants.EnvDBPassword, "postgres"),
		config.GetEnv(constants.EnvDBHost, "localhost"),
		config.GetEnv(constants.EnvDBPort, "5432"),
		config.GetEnv(constants.EnvDBName, "postgres"),
		config.GetEnv(constants.EnvDBSSLMode, "disable"),
	)
}

// Service handles database migrations
type Service struct {
	config  Config
	migrate *migrate.Migrate
}

// NewService creates a new migration service, retrying the database
// connection per the configured budget.
func NewService(ctx context.Context, cfg Config) (*Service, error) {
	var m *migrate.Migrate

	r := NewRetrier(cfg.RetryAttempts, cfg.RetryDelay)
	err := r.Run(ctx, "migration connect", func(context.Context) error {
		var err error
		m, err = newMigrate(cfg.DatabaseURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Service{config: cfg, migrate: m}, nil
}

func newMigrate(databaseURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// Up runs all pending migrations
func (s *Service) Up() error {
	if err := s.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Migrations completed successfully")
	return nil
}

// Down rolls back all migrations
func (s *Service) Down() error {
	if err := s.migrate.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	logger.Info("Rollback completed successfully")
	return nil
}

// Steps runs n migrations up or down
func (s *Service) Steps(n int) error {
	if err := s.migrate.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run %d migrations: %w", n, err)
	}
	return nil
}

// Version returns the current migration version
func (s *Service) Version() (uint, bool, error) {
	return s.migrate.Version()
}

// Force forces a specific version
func (s *Service) Force(version int) error {
	return s.migrate.Force(version)
}

// Close releases the migration source and database handles
func (s *Service) Close() error {
	srcErr, dbErr := s.migrate.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

// Run connects and applies all pending migrations, treating the whole
// connect-and-apply as one retryable attempt. This is what the server
// entrypoint supervises alongside the HTTP listener.
func Run(ctx context.Context, cfg Config) error {
	r := NewRetrier(cfg.RetryAttempts, cfg.RetryDelay)
	return r.Run(ctx, "migration", func(context.Context) error {
		m, err := newMigrate(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() {
			if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
				logger.Warnf("error closing migration handles: %v %v", srcErr, dbErr)
			}
		}()

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	})
}
