// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvServerPort is the port the HTTP API listens on
	EnvServerPort = "SERVER_PORT"

	// EnvLogLevel controls the log level of the application logger
	EnvLogLevel = "LOG_LEVEL"

	// EnvElasticsearchURL is the Elasticsearch endpoint used for log shipping.
	// When empty, logs go to stdout only.
	EnvElasticsearchURL = "ELASTICSEARCH_URL"

	// Database connection settings
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
	EnvDBSSLMode  = "DB_SSL_MODE"

	// Migration retry settings
	EnvMigrateRetries   = "MIGRATE_RETRIES"
	EnvMigrateRetryWait = "MIGRATE_RETRY_WAIT"

	// EnvAdminAPIKey, when set, seeds an administrator account with this key
	EnvAdminAPIKey = "ADMIN_API_KEY"
)
