package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Strob0t/SkillSprint/internal/adapter/postgres"
	"github.com/Strob0t/SkillSprint/internal/adapter/ristretto"
	"github.com/Strob0t/SkillSprint/internal/adapter/sqlite"
	"github.com/Strob0t/SkillSprint/internal/config"
	"github.com/Strob0t/SkillSprint/internal/port/cache"
	"github.com/Strob0t/SkillSprint/internal/port/database"
)

// openStore connects the configured database driver.
func openStore(ctx context.Context, cfg config.Database) (database.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		slog.Info("postgres connected", "max_conns", cfg.MaxConns)
		return postgres.NewStore(pool), nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		slog.Info("sqlite opened", "path", cfg.SQLitePath)
		return sqlite.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// migrator runs goose migrations for the configured driver.
type migrator struct {
	up       func(ctx context.Context) error
	down     func(ctx context.Context, steps int) error
	version  func(ctx context.Context) (int64, error)
	location string
}

func newMigrator(cfg config.Database) (migrator, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return migrator{
			up:       func(ctx context.Context) error { return postgres.RunMigrations(ctx, cfg.DSN) },
			down:     func(ctx context.Context, n int) error { return postgres.RollbackMigrations(ctx, cfg.DSN, n) },
			version:  func(ctx context.Context) (int64, error) { return postgres.MigrationVersion(ctx, cfg.DSN) },
			location: "postgres",
		}, nil
	case config.DriverSQLite:
		return migrator{
			up:       func(ctx context.Context) error { return sqlite.RunMigrations(ctx, cfg.SQLitePath) },
			down:     func(ctx context.Context, n int) error { return sqlite.RollbackMigrations(ctx, cfg.SQLitePath, n) },
			version:  func(ctx context.Context) (int64, error) { return sqlite.MigrationVersion(ctx, cfg.SQLitePath) },
			location: cfg.SQLitePath,
		}, nil
	default:
		return migrator{}, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// newSummaryCache returns the summary cache. A zero size disables caching.
func newSummaryCache(cfg config.Cache) (cache.Cache, func(), error) {
	if cfg.MaxSizeMB <= 0 {
		slog.Info("summary cache disabled")
		return cache.Nop{}, func() {}, nil
	}
	c, err := ristretto.New(cfg.MaxSizeMB << 20)
	if err != nil {
		return nil, nil, fmt.Errorf("summary cache: %w", err)
	}
	slog.Info("summary cache enabled", "max_size_mb", cfg.MaxSizeMB, "ttl", cfg.TTL)
	return c, c.Close, nil
}
