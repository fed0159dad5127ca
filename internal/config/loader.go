package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "skillsprint.yaml"

// minSecretLength is the shortest accepted session signing secret.
const minSecretLength = 16

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error. SKILLSPRINT_CONFIG
// overrides the YAML path.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if v := os.Getenv("SKILLSPRINT_CONFIG"); v != "" {
		path = v
	}
	return LoadFrom(path)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: operator-supplied config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "SKILLSPRINT_PORT")
	setBool(&cfg.Server.SecureCookies, "SKILLSPRINT_SECURE_COOKIES")
	setBool(&cfg.Server.TrustProxy, "SKILLSPRINT_TRUST_PROXY")
	setDuration(&cfg.Server.RequestTimeout, "SKILLSPRINT_REQUEST_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "SKILLSPRINT_SHUTDOWN_TIMEOUT")

	setString(&cfg.Database.Driver, "SKILLSPRINT_DB_DRIVER")
	setString(&cfg.Database.SQLitePath, "SKILLSPRINT_SQLITE_PATH")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setInt32(&cfg.Database.MaxConns, "SKILLSPRINT_DB_MAX_CONNS")
	setInt32(&cfg.Database.MinConns, "SKILLSPRINT_DB_MIN_CONNS")
	setDuration(&cfg.Database.MaxConnLifetime, "SKILLSPRINT_DB_MAX_CONN_LIFETIME")
	setDuration(&cfg.Database.MaxConnIdleTime, "SKILLSPRINT_DB_MAX_CONN_IDLE_TIME")

	setString(&cfg.Session.Secret, "SKILLSPRINT_SECRET_KEY")
	setString(&cfg.Session.CookieName, "SKILLSPRINT_SESSION_COOKIE")
	setDuration(&cfg.Session.TTL, "SKILLSPRINT_SESSION_TTL")

	setInt(&cfg.Auth.BcryptCost, "SKILLSPRINT_BCRYPT_COST")
	setInt(&cfg.Auth.MinPasswordLength, "SKILLSPRINT_MIN_PASSWORD_LENGTH")

	setString(&cfg.Logging.Level, "SKILLSPRINT_LOG_LEVEL")
	setString(&cfg.Logging.Service, "SKILLSPRINT_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "SKILLSPRINT_LOG_ASYNC")

	setFloat64(&cfg.Rate.RequestsPerSecond, "SKILLSPRINT_RATE_RPS")
	setInt(&cfg.Rate.Burst, "SKILLSPRINT_RATE_BURST")

	setInt64(&cfg.Cache.MaxSizeMB, "SKILLSPRINT_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "SKILLSPRINT_CACHE_TTL")

	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setBool(&cfg.OTEL.Insecure, "SKILLSPRINT_OTEL_INSECURE")

	setInt(&cfg.Dashboard.RecentTasks, "SKILLSPRINT_RECENT_TASKS")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch cfg.Database.Driver {
	case DriverSQLite:
		if cfg.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
		if cfg.Database.MaxConns < 1 {
			return errors.New("database.max_conns must be >= 1")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.Database.Driver)
	}
	if len(cfg.Session.Secret) < minSecretLength {
		return fmt.Errorf("session.secret must be at least %d characters (set SKILLSPRINT_SECRET_KEY)", minSecretLength)
	}
	if cfg.Session.CookieName == "" {
		return errors.New("session.cookie_name is required")
	}
	if cfg.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.Auth.MinPasswordLength < 1 {
		return errors.New("auth.min_password_length must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Rate.RequestsPerSecond <= 0 {
		return errors.New("rate.requests_per_second must be positive")
	}
	if cfg.Dashboard.RecentTasks < 0 {
		return errors.New("dashboard.recent_tasks must be >= 0")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
