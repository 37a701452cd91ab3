package config

import (
	"fmt"
	"time"
)

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Users    UsersConfig    `yaml:"users"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"SERVER_ADDR"             env-default:":8085"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings for the ledgers.
// An empty DSN switches the service to in-memory ledgers (dev mode).
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"               env:"DATABASE_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns"    env:"DATABASE_MAX_OPEN_CONNS"    env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"DATABASE_MAX_IDLE_CONNS"    env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME" env-default:"1h"`
}

// RedisConfig holds optional Redis settings for the write throttle.
type RedisConfig struct {
	URL          string        `yaml:"url"            env:"REDIS_URL"`
	PoolSize     int           `yaml:"pool_size"      env:"REDIS_POOL_SIZE"      env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout"   env:"REDIS_DIAL_TIMEOUT"   env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout"   env:"REDIS_READ_TIMEOUT"   env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout"  env:"REDIS_WRITE_TIMEOUT"  env-default:"3s"`
}

// UsersConfig points at the user service resolving moderator roles.
type UsersConfig struct {
	BaseURL string        `yaml:"base_url" env:"USERS_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"USERS_TIMEOUT"  env-default:"5s"`
}

// CatalogConfig points at the product service owning item status.
type CatalogConfig struct {
	BaseURL string        `yaml:"base_url" env:"CATALOG_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"CATALOG_TIMEOUT" env-default:"5s"`
}

// EventsConfig holds the optional Kafka monitoring sink settings.
type EventsConfig struct {
	Brokers []string `yaml:"brokers" env:"EVENTS_BROKERS"`
	Topic   string   `yaml:"topic"   env:"EVENTS_TOPIC"   env-default:"moderation.events"`
	Buffer  int      `yaml:"buffer"  env:"EVENTS_BUFFER"  env-default:"256"`
}

// AuthConfig holds gateway token validation settings.
type AuthConfig struct {
	JWTSigningKey string `yaml:"jwt_signing_key" env:"AUTH_JWT_SIGNING_KEY" env-default:"dev-secret-change-in-production"`
	JWTIssuer     string `yaml:"jwt_issuer"      env:"AUTH_JWT_ISSUER"      env-default:"marketmod-gateway"`
}

// ThrottleConfig bounds moderation writes per moderator.
type ThrottleConfig struct {
	Enabled bool          `yaml:"enabled" env:"THROTTLE_ENABLED" env-default:"true"`
	Limit   int           `yaml:"limit"   env:"THROTTLE_LIMIT"   env-default:"60"`
	Window  time.Duration `yaml:"window"  env:"THROTTLE_WINDOW"  env-default:"1m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Validate rejects configurations the service cannot run with. Collaborator
// base URLs are required: authorization and status mutation are both remote.
func (c *Config) Validate() error {
	if c.Users.BaseURL == "" {
		return fmt.Errorf("users.base_url is required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Throttle.Enabled && c.Throttle.Limit < 1 {
		return fmt.Errorf("throttle.limit must be >= 1 when enabled")
	}
	if c.Events.Buffer < 1 {
		return fmt.Errorf("events.buffer must be >= 1")
	}
	return nil
}
