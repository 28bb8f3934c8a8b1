package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aaditya574/ledgelogger/internal/observability"
	"github.com/aaditya574/ledgelogger/internal/shared"
)

// DefaultIdempotencyRetention is how long processed keys are kept.
const DefaultIdempotencyRetention = 30 * 24 * time.Hour

// NewIdempotencyCleanupHandler returns the handler for TaskIdempotencyCleanup.
func NewIdempotencyCleanupHandler(store *shared.IdempotencyStore, logger *slog.Logger, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload IdempotencyCleanupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		retention := payload.Retention
		if retention <= 0 {
			retention = DefaultIdempotencyRetention
		}
		if err := store.Cleanup(ctx, retention); err != nil {
			metrics.ObserveJob(TaskIdempotencyCleanup, "error")
			logger.Error("idempotency cleanup", slog.Any("error", err))
			return err
		}
		metrics.ObserveJob(TaskIdempotencyCleanup, "ok")
		logger.Info("idempotency cleanup done", slog.Duration("retention", retention))
		return nil
	}
}
