package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aaditya574/ledgelogger/internal/observability"
	"github.com/aaditya574/ledgelogger/internal/reports"
)

// OwnerLister enumerates registered owners for warmup fan-out.
type OwnerLister interface {
	OwnerIDs(ctx context.Context) ([]int64, error)
}

// NewReportsWarmupHandler returns the handler for TaskReportsWarmup. It
// precomputes yesterday's daily report for every owner so the first morning
// request hits a warm cache.
func NewReportsWarmupHandler(svc *reports.Service, owners OwnerLister, logger *slog.Logger, metrics *observability.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ReportsWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		at := payload.ScheduledFor
		if at.IsZero() {
			at = time.Now().UTC()
		}
		yesterday := at.UTC().AddDate(0, 0, -1)

		ids, err := owners.OwnerIDs(ctx)
		if err != nil {
			metrics.ObserveJob(TaskReportsWarmup, "error")
			return err
		}
		var failed int
		for _, ownerID := range ids {
			if err := svc.Warm(ctx, ownerID, yesterday); err != nil {
				failed++
				logger.Warn("report warmup", slog.Int64("owner_id", ownerID), slog.Any("error", err))
			}
		}
		if failed > 0 {
			metrics.ObserveJob(TaskReportsWarmup, "partial")
		} else {
			metrics.ObserveJob(TaskReportsWarmup, "ok")
		}
		logger.Info("report warmup done", slog.Int("owners", len(ids)), slog.Int("failed", failed))
		return nil
	}
}
