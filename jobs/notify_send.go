package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/vastra-shop/vastra/internal/jobs"
	"github.com/vastra-shop/vastra/internal/notify"
)

// NotifySendJob delivers queued notification messages.
type NotifySendJob struct {
	Notifier *notify.Telegram
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewNotifySendJob wires dependencies for the notify handler.
func NewNotifySendJob(notifier *notify.Telegram, logger *slog.Logger, metrics *jobmetrics.Metrics) *NotifySendJob {
	return &NotifySendJob{Notifier: notifier, Logger: logger, Metrics: metrics}
}

// Handle processes notification tasks. Delivery failures are swallowed
// by the notifier itself, so the task never retries on transport errors.
func (j *NotifySendJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Notifier == nil {
		return errors.New("notify send: handler not configured")
	}
	var payload NotifySendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Text == "" {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskNotifySend)
	j.Notifier.Send(ctx, payload.Text)
	j.Metrics.IncNotification()
	j.Logger.Debug("notification dispatched", slog.Int("length", len(payload.Text)))
	return tracker.End(nil)
}
