package scheduler

import (
	"context"
	"fmt"

	"realty_site_backend/internal/sheets"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sync   *sheets.Client
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, syncClient *sheets.Client, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sync:   syncClient,
		log:    log,
	}

	mux.HandleFunc(TaskSheetsSyncLead, w.handleSheetsSync)

	return w, nil
}

func (w *Worker) handleSheetsSync(ctx context.Context, task *asynq.Task) error {
	row, err := ParseSheetsSyncPayload(task)
	if err != nil {
		return err
	}

	if w.sync == nil || !w.sync.Enabled() {
		return nil
	}

	if err := w.sync.SyncLead(ctx, row); err != nil {
		w.log.Error("sheets sync failed", "lead_id", row.ID, "error", err)
		return err
	}

	w.log.Info("lead synced to sheet", "lead_id", row.ID)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
