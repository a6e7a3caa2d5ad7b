package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cafebooks/cafebooks/internal/procurement"
)

// BatchSource lists batches expiring inside a window.
// *procurement.Service satisfies it.
type BatchSource interface {
	ExpiringWithin(ctx context.Context, days int) ([]procurement.SerialBatch, error)
}

// ExpiryScanner surfaces batches approaching expiry so operators can
// discount or pull them before they spoil.
type ExpiryScanner struct {
	source BatchSource
	logger *slog.Logger
}

func NewExpiryScanner(source BatchSource, logger *slog.Logger) *ExpiryScanner {
	return &ExpiryScanner{source: source, logger: logger}
}

// Handle processes TaskExpiryScan tasks.
func (s *ExpiryScanner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ExpiryScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	days := payload.Days
	if days <= 0 {
		days = 30
	}
	batches, err := s.source.ExpiringWithin(ctx, days)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		s.logger.Info("expiry scan clean", slog.Int("days", days))
		return nil
	}
	soonest := batches[0]
	s.logger.Warn("batches approaching expiry",
		slog.Int("days", days),
		slog.Int("count", len(batches)),
		slog.Int64("soonest_product_id", soonest.ProductID),
		slog.Time("soonest_expiry", derefTime(soonest.Expiry)))
	return nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
