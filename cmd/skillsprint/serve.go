package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cfhttp "github.com/Strob0t/SkillSprint/internal/adapter/http"
	cfotel "github.com/Strob0t/SkillSprint/internal/adapter/otel"
	"github.com/Strob0t/SkillSprint/internal/config"
	"github.com/Strob0t/SkillSprint/internal/middleware"
	"github.com/Strob0t/SkillSprint/internal/service"
	"github.com/Strob0t/SkillSprint/internal/session"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, flush, err := loadConfig()
			if err != nil {
				return err
			}
			defer flush()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations at startup")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, migrate bool) error {
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"db_driver", cfg.Database.Driver,
	)

	// --- Telemetry ---
	shutdownOTEL, err := cfotel.Setup(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTEL(sctx); err != nil {
			slog.Warn("otel shutdown failed", "error", err)
		}
	}()

	metrics, err := cfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---
	if migrate {
		m, err := newMigrator(cfg.Database)
		if err != nil {
			return err
		}
		if err := m.up(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		slog.Info("migrations applied")
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summaryCache, closeCache, err := newSummaryCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	// --- Services ---
	progressSvc := service.NewProgressService(store, summaryCache, cfg.Cache.TTL, cfg.Dashboard.RecentTasks)
	authSvc := service.NewAuthService(store, &cfg.Auth)
	authSvc.SetMetrics(metrics)
	taskSvc := service.NewTaskService(store, progressSvc)
	taskSvc.SetMetrics(metrics)
	roadmapSvc := service.NewRoadmapService(store, progressSvc)
	roadmapSvc.SetMetrics(metrics)

	// --- HTTP ---
	views, err := cfhttp.NewRenderer()
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	sessions := session.NewManager(cfg.Session, cfg.Server.SecureCookies)

	handlers := &cfhttp.Handlers{
		Auth:     authSvc,
		Tasks:    taskSvc,
		Roadmaps: roadmapSvc,
		Progress: progressSvc,
		Sessions: sessions,
		Views:    views,
		DB:       store,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	limiter.OnReject(func(r *http.Request) {
		metrics.RateLimitRejected.Add(r.Context(), 1)
	})
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(cfotel.HTTPMiddleware(cfg.OTEL.ServiceName))
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	r.Use(cfhttp.SecurityHeaders)
	r.Use(middleware.Session(sessions))

	cfhttp.MountRoutes(r, handlers, limiter)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
