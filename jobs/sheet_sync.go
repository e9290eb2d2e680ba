package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vastra-shop/vastra/internal/jobs"
	"github.com/vastra-shop/vastra/internal/sheets"
)

// SheetSyncJob copies the active sheet tabs into the persisted catalog.
type SheetSyncJob struct {
	Sheets  *sheets.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewSheetSyncJob wires dependencies for the sync handler.
func NewSheetSyncJob(sheetsSvc *sheets.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *SheetSyncJob {
	return &SheetSyncJob{Sheets: sheetsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes sheet-to-catalog sync tasks.
func (j *SheetSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sheets == nil {
		return errors.New("sheet sync: handler not configured")
	}
	var payload SheetSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskSheetSync)
	inserted, err := j.Sheets.SyncToCatalog(ctx)
	if err != nil {
		j.Logger.Error("sheet sync failed", slog.String("requested_by", payload.RequestedBy), slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddSheetRows("all", inserted)
	j.Logger.Info("sheet sync finished",
		slog.String("requested_by", payload.RequestedBy),
		slog.Int("inserted", inserted))
	return tracker.End(nil)
}
