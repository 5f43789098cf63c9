// The worker consumes queued spreadsheet-sync tasks. Run it alongside the
// API whenever REDIS_URL is configured.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"realty_site_backend/internal/scheduler"
	"realty_site_backend/internal/sheets"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncClient := sheets.NewClient(cfg, log)
	if !syncClient.Enabled() {
		log.Warn("SHEETS_WEBHOOK_URL not configured; queued tasks will be dropped")
	}

	worker, err := scheduler.NewWorker(cfg, syncClient, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
