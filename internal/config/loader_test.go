package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef-test"

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLitePath != "database.db" {
		t.Errorf("expected database.db, got %s", cfg.Database.SQLitePath)
	}
	if cfg.Session.Secret != "" {
		t.Error("session secret must not have a default")
	}
	if cfg.Dashboard.RecentTasks != 5 {
		t.Errorf("expected 5 recent tasks, got %d", cfg.Dashboard.RecentTasks)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  secure_cookies: true
database:
  driver: postgres
  dsn: "postgres://u:p@db:5432/skillsprint"
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if !cfg.Server.SecureCookies {
		t.Error("expected secure cookies from YAML")
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Session.TTL != 7*24*time.Hour {
		t.Errorf("expected default session ttl, got %v", cfg.Session.TTL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(yamlPath, []byte("server: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("SKILLSPRINT_PORT", "7070")
	t.Setenv("SKILLSPRINT_DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("SKILLSPRINT_DB_MAX_CONNS", "25")
	t.Setenv("SKILLSPRINT_SECRET_KEY", testSecret)
	t.Setenv("SKILLSPRINT_LOG_LEVEL", "warn")
	t.Setenv("SKILLSPRINT_CACHE_TTL", "1m")
	t.Setenv("SKILLSPRINT_BCRYPT_COST", "not-a-number")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Database.MaxConns)
	}
	if cfg.Session.Secret != testSecret {
		t.Errorf("expected secret from env, got %q", cfg.Session.Secret)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("expected cache ttl 1m, got %v", cfg.Cache.TTL)
	}
	// Unparseable values are ignored.
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("expected default bcrypt cost, got %d", cfg.Auth.BcryptCost)
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "empty sqlite path",
			modify: func(c *Config) { c.Database.SQLitePath = "" },
			errMsg: "database.sqlite_path is required for the sqlite driver",
		},
		{
			name: "postgres without DSN",
			modify: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.DSN = ""
			},
			errMsg: "database.dsn is required for the postgres driver",
		},
		{
			name: "postgres zero max_conns",
			modify: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.DSN = "postgres://x"
				c.Database.MaxConns = 0
			},
			errMsg: "database.max_conns must be >= 1",
		},
		{
			name:   "unknown driver",
			modify: func(c *Config) { c.Database.Driver = "mysql" },
			errMsg: `database.driver must be "sqlite" or "postgres", got "mysql"`,
		},
		{
			name:   "short secret",
			modify: func(c *Config) { c.Session.Secret = "short" },
			errMsg: "session.secret must be at least 16 characters (set SKILLSPRINT_SECRET_KEY)",
		},
		{
			name:   "bcrypt cost too low",
			modify: func(c *Config) { c.Auth.BcryptCost = 1 },
			errMsg: "auth.bcrypt_cost must be between 4 and 31",
		},
		{
			name:   "zero rate burst",
			modify: func(c *Config) { c.Rate.Burst = 0 },
			errMsg: "rate.burst must be >= 1",
		},
		{
			name:   "negative recent tasks",
			modify: func(c *Config) { c.Dashboard.RecentTasks = -1 },
			errMsg: "dashboard.recent_tasks must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Session.Secret = testSecret
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaultsWithSecret(t *testing.T) {
	cfg := Defaults()
	cfg.Session.Secret = testSecret
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults plus secret should validate, got %v", err)
	}
}

func TestValidateDefaultsRequireSecret(t *testing.T) {
	cfg := Defaults()
	err := validate(&cfg)
	if err == nil || !strings.Contains(err.Error(), "session.secret") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
}
