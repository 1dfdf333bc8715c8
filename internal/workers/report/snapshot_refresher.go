package report

import (
	"context"
	"time"

	"costwatch/internal/metrics"
	"costwatch/internal/services/costreport"
	"costwatch/internal/workers"
	"costwatch/pkg/errors"
)

// SnapshotRefresher periodically recomputes the simple summary rollup and
// warms the snapshot cache, so API reads stay cheap and staleness stays
// bounded by the refresh interval rather than the cache TTL alone.
type SnapshotRefresher struct {
	*workers.BaseWorker
	service *costreport.Service
}

// NewSnapshotRefresher creates a new snapshot refresher worker
func NewSnapshotRefresher(service *costreport.Service, interval time.Duration, enabled bool) *SnapshotRefresher {
	return &SnapshotRefresher{
		BaseWorker: workers.NewBaseWorker("snapshot_refresher", interval, enabled),
		service:    service,
	}
}

// Run executes one refresh iteration
func (w *SnapshotRefresher) Run(ctx context.Context) error {
	summary, err := w.service.RefreshSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to refresh summary snapshot")
	}

	metrics.SnapshotLastRefresh.SetToCurrentTime()

	w.Log().Debugw("summary snapshot refreshed",
		"total_opportunities", summary.TotalOpportunities,
		"total_cost_usd", summary.TotalCostUSD,
	)

	return nil
}
