package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpiryScan reports batches expiring inside the configured window.
	TaskExpiryScan = "batches:expiry_scan"
	// TaskStockIntegrity verifies denormalized stock totals against levels.
	TaskStockIntegrity = "stock:integrity"
)

// ExpiryScanPayload carries the reporting window for an expiry scan.
type ExpiryScanPayload struct {
	Days         int       `json:"days"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewExpiryScanTask constructs an Asynq task for the expiry scan.
func NewExpiryScanTask(days int, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(ExpiryScanPayload{Days: days, ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpiryScan, body, asynq.Queue(QueueDefault)), nil
}

// StockIntegrityPayload carries scheduling metadata.
type StockIntegrityPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewStockIntegrityTask constructs an Asynq task for the integrity check.
func NewStockIntegrityTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(StockIntegrityPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockIntegrity, body, asynq.Queue(QueueDefault)), nil
}
