package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Gateway      GatewayConfig
	HTTP         HTTPConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REDISTRIB_APP_ENV" required:"true"`
	Port         string `envconfig:"REDISTRIB_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"REDISTRIB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REDISTRIB_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"REDISTRIB_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"REDISTRIB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"REDISTRIB_DB_DSN"`

	LegacyHost     string `envconfig:"REDISTRIB_DB_HOST"`
	LegacyPort     int    `envconfig:"REDISTRIB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REDISTRIB_DB_USER"`
	LegacyPassword string `envconfig:"REDISTRIB_DB_PASSWORD"`
	LegacyName     string `envconfig:"REDISTRIB_DB_NAME"`
	LegacySSLMode  string `envconfig:"REDISTRIB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REDISTRIB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REDISTRIB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REDISTRIB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REDISTRIB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REDISTRIB_REDIS_URL"`
	Address      string        `envconfig:"REDISTRIB_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"REDISTRIB_REDIS_PASSWORD"`
	DB           int           `envconfig:"REDISTRIB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDISTRIB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDISTRIB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDISTRIB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDISTRIB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REDISTRIB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REDISTRIB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REDISTRIB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REDISTRIB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REDISTRIB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REDISTRIB_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"REDISTRIB_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"REDISTRIB_SQLITE_PATH" default:"redistrib.db"`
	AutoMigrate bool   `envconfig:"REDISTRIB_AUTO_MIGRATE" default:"false"`
}

// GatewayConfig tunes the record store gateway.
type GatewayConfig struct {
	// SummaryMode is either SummaryModeIndependent or SummaryModeSnapshot.
	SummaryMode        string `envconfig:"REDISTRIB_GATEWAY_SUMMARY_MODE" default:"independent"`
	PreviousMetricDays int    `envconfig:"REDISTRIB_GATEWAY_PREVIOUS_METRIC_DAYS" default:"7"`
}

func (g GatewayConfig) Snapshot() bool {
	return strings.EqualFold(strings.TrimSpace(g.SummaryMode), SummaryModeSnapshot)
}

type HTTPConfig struct {
	CORSOrigins  []string      `envconfig:"REDISTRIB_CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
	ReadTimeout  time.Duration `envconfig:"REDISTRIB_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"REDISTRIB_HTTP_WRITE_TIMEOUT" default:"15s"`
}

type CronConfig struct {
	Interval     time.Duration `envconfig:"REDISTRIB_CRON_INTERVAL" default:"24h"`
	ScanInterval time.Duration `envconfig:"REDISTRIB_CRON_SCAN_INTERVAL" default:"5m"`
	LockTTL      time.Duration `envconfig:"REDISTRIB_CRON_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
