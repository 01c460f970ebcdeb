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
	Stock        StockConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LAUNDRYLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"LAUNDRYLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LAUNDRYLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LAUNDRYLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LAUNDRYLINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"LAUNDRYLINE_DB_DSN"`
	Driver string `envconfig:"LAUNDRYLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LAUNDRYLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"LAUNDRYLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LAUNDRYLINE_DB_USER"`
	LegacyPassword string `envconfig:"LAUNDRYLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"LAUNDRYLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"LAUNDRYLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LAUNDRYLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LAUNDRYLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LAUNDRYLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LAUNDRYLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LAUNDRYLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LAUNDRYLINE_REDIS_ADDR"`
	Password     string        `envconfig:"LAUNDRYLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LAUNDRYLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LAUNDRYLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LAUNDRYLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LAUNDRYLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LAUNDRYLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LAUNDRYLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StockConfig tunes the stock subsystem. Timezone drives the "today" boundary
// for consumption analytics and worker-facing date formatting.
type StockConfig struct {
	Timezone           string `envconfig:"LAUNDRYLINE_STOCK_TIMEZONE" default:"Asia/Kolkata"`
	WriteRetries       int    `envconfig:"LAUNDRYLINE_STOCK_WRITE_RETRIES" default:"3"`
	SeedDefaultsOnBoot bool   `envconfig:"LAUNDRYLINE_STOCK_SEED_ON_BOOT" default:"true"`
}

// Location resolves the configured timezone, falling back to UTC on bad input.
func (s StockConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LAUNDRYLINE_AUTO_MIGRATE" default:"false"`
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
