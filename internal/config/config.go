// Package config provides hierarchical configuration loading for SkillSprint.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the SkillSprint web service.
type Config struct {
	Server    Server    `yaml:"server"`
	Database  Database  `yaml:"database"`
	Session   Session   `yaml:"session"`
	Auth      Auth      `yaml:"auth"`
	Logging   Logging   `yaml:"logging"`
	Rate      Rate      `yaml:"rate"`
	Cache     Cache     `yaml:"cache"`
	OTEL      OTEL      `yaml:"otel"`
	Dashboard Dashboard `yaml:"dashboard"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port              string        `yaml:"port"`
	SecureCookies     bool          `yaml:"secure_cookies"` // set the Secure flag; enable behind TLS
	TrustProxy        bool          `yaml:"trust_proxy"`    // take client IPs from X-Forwarded-For / X-Real-IP
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// Database selects and configures the persistence backend.
type Database struct {
	Driver          string        `yaml:"driver"` // "sqlite" | "postgres"
	SQLitePath      string        `yaml:"sqlite_path"`
	DSN             string        `yaml:"dsn"` // postgres only
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	HealthCheck     time.Duration `yaml:"health_check"`
}

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Session holds signed-cookie session configuration.
type Session struct {
	Secret     string        `yaml:"secret"` // HMAC key; required
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	FlashTTL   time.Duration `yaml:"flash_ttl"`
}

// Auth holds password hashing configuration.
type Auth struct {
	BcryptCost        int `yaml:"bcrypt_cost"`
	MinPasswordLength int `yaml:"min_password_length"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Rate holds the login/register rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdleTime       time.Duration `yaml:"max_idle_time"`
}

// Cache holds the in-process summary cache configuration.
// A zero MaxSizeMB disables caching.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	TTL       time.Duration `yaml:"ttl"`
}

// OTEL holds OpenTelemetry exporter configuration.
// An empty Endpoint leaves the global no-op providers in place.
type OTEL struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Dashboard holds dashboard presentation settings.
type Dashboard struct {
	RecentTasks int `yaml:"recent_tasks"`
}

// Defaults returns a Config with sensible default values for local development.
// Session.Secret has no default and must be provided.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:              "5000",
			RequestTimeout:    30 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: Database{
			Driver:          DriverSQLite,
			SQLitePath:      "database.db",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 10 * time.Minute,
			HealthCheck:     time.Minute,
		},
		Session: Session{
			CookieName: "skillsprint_session",
			TTL:        7 * 24 * time.Hour,
			FlashTTL:   time.Minute,
		},
		Auth: Auth{
			BcryptCost:        12,
			MinPasswordLength: 8,
		},
		Logging: Logging{
			Level:   "info",
			Service: "skillsprint",
		},
		Rate: Rate{
			RequestsPerSecond: 1,
			Burst:             10,
			CleanupInterval:   5 * time.Minute,
			MaxIdleTime:       10 * time.Minute,
		},
		Cache: Cache{
			MaxSizeMB: 16,
			TTL:       15 * time.Second,
		},
		OTEL: OTEL{
			ServiceName: "skillsprint",
		},
		Dashboard: Dashboard{
			RecentTasks: 5,
		},
	}
}
