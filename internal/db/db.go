// Package db provides database connectivity and operations
package db

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CatDevelop/exchange-tochka/internal/constants"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// Database configuration constants
const (
	// DefaultHost is the default database host
	DefaultHost = "localhost"
	// DefaultPort is the default database port
	DefaultPort = 5432
	// DefaultUser is the default database user
	DefaultUser = "postgres"
	// DefaultPassword is the default database password
	DefaultPassword = "postgres"
	// DefaultDBName is the default database name
	DefaultDBName     = "postgres"
	DefaultSSLEnabled = false
)

// Options represents database connection configuration options
type Options struct {
	Host       string
	User       string
	Password   string
	DBName     string
	Port       int
	SSLEnabled *bool
	LogLevel   logger.LogLevel
}

// New creates a new database connection with the given options.
// Schema management is handled by the migration runner, not here.
func New(opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)
	sslMode := "disable"
	if opts.SSLEnabled != nil && *opts.SSLEnabled {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.DBName, opts.Port, sslMode)

	// Custom logger that ignores record not found errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	// The connection is established lazily so the API can come up while the
	// database container is still starting; migrations retry on their own.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               newLogger,
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// IsDuplicateKeyError checks if the given error is a duplicate key violation,
// whether already translated by gorm or still the raw driver error
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(postgres.Dialector{}.Translate(err), gorm.ErrDuplicatedKey)
}

func setDefaults(opts Options) Options {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.User == "" {
		opts.User = DefaultUser
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.DBName == "" {
		opts.DBName = DefaultDBName
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.SSLEnabled == nil {
		sslMode := DefaultSSLEnabled
		opts.SSLEnabled = &sslMode
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	return opts
}

// SetupAdminUser ensures an administrator account exists when ADMIN_API_KEY
// is configured. Without the env var no admin is seeded.
func SetupAdminUser(db *gorm.DB) error {
	apiKey := os.Getenv(constants.EnvAdminAPIKey)
	if apiKey == "" {
		return nil
	}

	admin := models.User{
		Name:   "admin",
		Role:   models.UserRoleAdmin,
		APIKey: apiKey,
	}
	result := db.Where("api_key = ?", apiKey).FirstOrCreate(&models.User{}, admin)
	if result.Error != nil {
		return fmt.Errorf("failed to ensure admin user exists: %w", result.Error)
	}
	return nil
}
