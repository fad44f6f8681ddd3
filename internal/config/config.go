package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=168h"`

	DefaultPageSize  int           `env:"DEFAULT_PAGE_SIZE, default=30"`
	MaxPageSize      int           `env:"MAX_PAGE_SIZE, default=50"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT, default=5s"`
	SummaryBatchSize int           `env:"SUMMARY_BATCH_SIZE, default=100"`

	Postgres PostgresConfig
}

type PostgresConfig struct {
	Host         string `env:"POSTGRES_HOST, default=localhost"`
	Port         string `env:"POSTGRES_PORT, default=5432"`
	User         string `env:"POSTGRES_USER, default=postgres"`
	Password     string `env:"POSTGRES_PASSWORD"`
	DB           string `env:"POSTGRES_DB, default=polls"`
	SSLMode      string `env:"POSTGRES_SSLMODE, default=disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS, default=20"`
}

// DSN builds the lib/pq connection URL.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DB,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireJWTSecret fails when no signing secret is configured.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxPageSize < 1 {
		return fmt.Errorf("MAX_PAGE_SIZE must be positive, got %d", c.MaxPageSize)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and %d, got %d", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}
