package config

// EnvPrefix is empty because every field names its full variable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SummaryModeIndependent = "independent"
	SummaryModeSnapshot    = "snapshot"
)

const (
	EnvAppEnv   = "REDISTRIB_APP_ENV"
	EnvPort     = "REDISTRIB_APP_PORT"
	EnvLogLevel = "REDISTRIB_LOG_LEVEL"

	EnvDBDSN      = "REDISTRIB_DB_DSN"
	EnvDBHost     = "REDISTRIB_DB_HOST"
	EnvDBPort     = "REDISTRIB_DB_PORT"
	EnvDBUser     = "REDISTRIB_DB_USER"
	EnvDBPassword = "REDISTRIB_DB_PASSWORD"
	EnvDBName     = "REDISTRIB_DB_NAME"

	EnvRedisURL = "REDISTRIB_REDIS_URL"

	EnvUseSQLite   = "REDISTRIB_USE_SQLITE"
	EnvSQLitePath  = "REDISTRIB_SQLITE_PATH"
	EnvAutoMigrate = "REDISTRIB_AUTO_MIGRATE"

	EnvGatewaySummaryMode = "REDISTRIB_GATEWAY_SUMMARY_MODE"
	EnvCORSOrigins        = "REDISTRIB_CORS_ORIGINS"
	EnvCronInterval       = "REDISTRIB_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
