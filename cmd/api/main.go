package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty_site_backend/internal/content"
	apphttp "realty_site_backend/internal/http"
	"realty_site_backend/internal/http/router"
	"realty_site_backend/internal/leads"
	"realty_site_backend/internal/scheduler"
	"realty_site_backend/internal/sheets"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/db"
	"realty_site_backend/platform/events"
	"realty_site_backend/platform/logger"
	"realty_site_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	leadsModule, err := leads.NewModule(pool, cfg, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	contentModule, err := content.NewModule(pool, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize content module", "error", err)
		panic("failed to initialize content module: " + err.Error())
	}

	// Spreadsheet sync: queue-backed when Redis is configured, otherwise a
	// direct webhook call from the event subscriber.
	sheetsClient := sheets.NewClient(cfg, log)
	enqueuer, closeEnqueuer := initSheetsEnqueuer(cfg, log)
	if closeEnqueuer != nil {
		defer closeEnqueuer()
	}
	if sheetsClient.Enabled() || enqueuer != nil {
		sheets.NewSubscriber(sheetsClient, enqueuer, log).Register(eventBus)
		log.Info("sheets sync enabled", "queued", enqueuer != nil)
	} else {
		log.Warn("SHEETS_WEBHOOK_URL not configured; spreadsheet sync disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			contentModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// Let detached event handlers (sheets sync) finish before exit.
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initSheetsEnqueuer(cfg config.SchedulerConfig, log *logger.Logger) (sheets.Enqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
