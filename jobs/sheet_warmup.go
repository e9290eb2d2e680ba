package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vastra-shop/vastra/internal/jobs"
	"github.com/vastra-shop/vastra/internal/sheets"
)

// SheetWarmupJob prefetches every active sheet tab through the cache so
// storefront reads inside the TTL window skip the remote fetch.
type SheetWarmupJob struct {
	Sheets  *sheets.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewSheetWarmupJob wires dependencies for the warmup handler.
func NewSheetWarmupJob(sheetsSvc *sheets.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *SheetWarmupJob {
	return &SheetWarmupJob{Sheets: sheetsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes sheet warmup tasks.
func (j *SheetWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sheets == nil {
		return errors.New("sheet warmup: handler not configured")
	}
	var payload SheetWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskSheetWarmup)
	start := time.Now()
	err := j.Sheets.Warm(ctx)
	if err != nil {
		j.Logger.Error("sheet warmup failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Logger.Info("sheet warmup finished", slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}
