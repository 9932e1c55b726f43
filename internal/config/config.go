package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds process configuration parsed from the environment.
type Config struct {
	// Env selects the deployment mode: development, production, or test.
	Env           string        `env:"APP_ENV" envDefault:"development"`
	Addr          string        `env:"ADDR" envDefault:":8080"`
	DatabasePath  string        `env:"DATABASE_PATH"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	JWTSecret     string        `env:"JWT_SECRET"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"12"`
	BusyTimeout   time.Duration `env:"DB_BUSY_TIMEOUT" envDefault:"5s"`
	ReadOnly      bool          `env:"DB_READ_ONLY" envDefault:"false"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

// Parse reads configuration from the environment, fills in the
// deployment-mode store location when DATABASE_PATH is unset, and
// validates the result.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath(cfg.Env)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDatabasePath(mode string) string {
	switch mode {
	case "production":
		return "/var/lib/patchbay/patchbay.db"
	case "test":
		return ":memory:"
	default:
		return "patchbay.db"
	}
}

func (c *Config) validate() error {
	switch c.Env {
	case "development", "production", "test":
	default:
		return fmt.Errorf("APP_ENV must be development, production, or test, got %q", c.Env)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.BusyTimeout <= 0 {
		return fmt.Errorf("DB_BUSY_TIMEOUT must be positive, got %s", c.BusyTimeout)
	}
	return nil
}

// IsProduction reports whether the process runs in production mode.
func (c *Config) IsProduction() bool { return c.Env == "production" }
