// internal/config/config.go
package config

import (
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every environment setting used by the binaries.
type Config struct {
	Port string `env:"PORT,default=8080"`

	DatabaseURL  string `env:"DATABASE_URL"`
	DBHost       string `env:"DB_HOST,default=localhost"`
	DBPort       string `env:"DB_PORT,default=5432"`
	DBUser       string `env:"DB_USER,default=postgres"`
	DBPassword   string `env:"DB_PASSWORD"`
	DBName       string `env:"DB_NAME,default=customers"`
	DBSSLMode    string `env:"DB_SSLMODE,default=disable"`
	DBMaxOpen    int    `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBMaxIdle    int    `env:"DB_MAX_IDLE_CONNS,default=5"`
	EnsureSchema bool   `env:"DB_ENSURE_SCHEMA,default=true"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
	LogDev    bool   `env:"LOG_DEVELOPMENT,default=false"`

	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE,default=10"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE,default=100"`

	RateLimitRPS   int `env:"RATE_LIMIT_RPS,default=0"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST,default=20"`

	CORSOrigin string `env:"CORS_ORIGIN,default=*"`

	AMQPURL     string `env:"AMQP_URL"`
	EventsQueue string `env:"EVENTS_QUEUE,default=customer_events"`

	WebPort    string `env:"WEB_PORT,default=3000"`
	APIBaseURL string `env:"API_BASE_URL,default=http://localhost:8080/api"`
}

// Load reads an optional .env file and decodes the environment into a Config.
// Missing .env is not an error: the process then relies on OS variables.
func Load(files ...string) (*Config, bool, error) {
	envLoaded := godotenv.Load(files...) == nil

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, envLoaded, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &cfg, envLoaded, nil
}

// DSN returns DATABASE_URL when set, otherwise a postgres URL built from DB_*.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string { return ":" + c.Port }

// WebAddr is the listen address of the presentation server.
func (c *Config) WebAddr() string { return ":" + c.WebPort }
