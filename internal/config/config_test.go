package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jslaski/patchbay/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// setBaseEnv pins every variable Parse reads so ambient shell state
// cannot leak into assertions.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("ADDR", ":8080")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("MIGRATIONS_DIR", "migrations")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("DB_BUSY_TIMEOUT", "5s")
	t.Setenv("DB_READ_ONLY", "false")
	t.Setenv("COOKIE_SECURE", "true")
}

func TestParse_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.DatabasePath != "patchbay.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "patchbay.db")
	}
	if cfg.MigrationsDir != "migrations" {
		t.Errorf("MigrationsDir = %q, want %q", cfg.MigrationsDir, "migrations")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.BusyTimeout != 5*time.Second {
		t.Errorf("BusyTimeout = %s, want 5s", cfg.BusyTimeout)
	}
	if cfg.ReadOnly {
		t.Error("ReadOnly = true, want false")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for development mode")
	}
}

func TestParse_ModeDatabaseDefaults(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"development", "patchbay.db"},
		{"production", "/var/lib/patchbay/patchbay.db"},
		{"test", ":memory:"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("APP_ENV", tt.mode)

			cfg, err := config.Parse()
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if cfg.DatabasePath != tt.want {
				t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, tt.want)
			}
		})
	}
}

func TestParse_ExplicitDatabasePathWins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_PATH", "/tmp/override.db")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DatabasePath != "/tmp/override.db" {
		t.Errorf("DatabasePath = %q, want explicit override", cfg.DatabasePath)
	}
}

func TestParse_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ADDR", "127.0.0.1:9090")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_BUSY_TIMEOUT", "250ms")
	t.Setenv("DB_READ_ONLY", "true")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d, want 4", cfg.BcryptCost)
	}
	if cfg.BusyTimeout != 250*time.Millisecond {
		t.Errorf("BusyTimeout = %s, want 250ms", cfg.BusyTimeout)
	}
	if !cfg.ReadOnly {
		t.Error("ReadOnly = false, want true")
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure = true, want false")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"missing jwt secret", "JWT_SECRET", "", "JWT_SECRET"},
		{"short jwt secret", "JWT_SECRET", "tooshort", "at least 32"},
		{"bcrypt cost too low", "BCRYPT_COST", "3", "between 4 and 14"},
		{"bcrypt cost too high", "BCRYPT_COST", "15", "between 4 and 14"},
		{"unknown mode", "APP_ENV", "staging", "APP_ENV"},
		{"zero busy timeout", "DB_BUSY_TIMEOUT", "0s", "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Parse()
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
