package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSheetWarmup prefetches active sheet tabs into the cache.
	TaskSheetWarmup = "sheets:warmup"
	// TaskSheetSync copies active sheet tabs into the product catalog.
	TaskSheetSync = "sheets:catalog_sync"
	// TaskNotifySend delivers a notification message off the request path.
	TaskNotifySend = "notify:send"
)

// SheetWarmupPayload carries scheduling metadata for cache warmup runs.
type SheetWarmupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSheetWarmupTask constructs an Asynq task for sheet cache warmup.
func NewSheetWarmupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SheetWarmupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSheetWarmup, body, asynq.Queue(QueueDefault)), nil
}

// SheetSyncPayload records who asked for the sync.
type SheetSyncPayload struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewSheetSyncTask constructs an Asynq task for a sheet-to-catalog sync.
func NewSheetSyncTask(requestedBy string) (*asynq.Task, error) {
	body, err := json.Marshal(SheetSyncPayload{RequestedBy: requestedBy, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSheetSync, body, asynq.Queue(QueueDefault)), nil
}

// NotifySendPayload is the message to deliver.
type NotifySendPayload struct {
	Text string `json:"text"`
}

// NewNotifySendTask constructs an Asynq task for a notification.
func NewNotifySendTask(text string) (*asynq.Task, error) {
	body, err := json.Marshal(NotifySendPayload{Text: text})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifySend, body, asynq.Queue(QueueDefault)), nil
}
