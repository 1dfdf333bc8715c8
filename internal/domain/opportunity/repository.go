package opportunity

import (
	"context"
	"time"
)

// Repository defines read-only access to workflow result records.
// The analytics layer never mutates the underlying record set.
type Repository interface {
	// ListByDateRange returns records with processed_at in [start, end),
	// ordered by processed_at ascending.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Opportunity, error)

	// ListAll returns the full historical record set, ordered by
	// processed_at ascending.
	ListAll(ctx context.Context) ([]Opportunity, error)
}

// SnapshotCache stores the most recent simple summary rollup. Staleness up
// to the cache TTL is acceptable: the simple summary is eventually
// consistent with ingestion by contract.
type SnapshotCache interface {
	// GetSummarySnapshot returns the cached rollup, or errors.ErrCacheMiss
	GetSummarySnapshot(ctx context.Context) (*Summary, error)

	// SetSummarySnapshot stores a freshly computed rollup
	SetSummarySnapshot(ctx context.Context, summary *Summary) error
}
