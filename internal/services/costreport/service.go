package costreport

import (
	"context"
	"time"

	"costwatch/internal/domain/opportunity"
	"costwatch/internal/metrics"
	"costwatch/pkg/errors"
	"costwatch/pkg/logger"
)

// Range is a closed calendar-date interval. Zero bounds fall back to the
// default window, evaluated once per call: end = today, start = today
// minus the configured window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Service exposes the three cost analytics operations as pure read
// functions over an injected opportunity.Repository. It never mutates
// the record set and holds no state between calls beyond the optional
// snapshot cache.
type Service struct {
	repo       opportunity.Repository
	cache      opportunity.SnapshotCache
	log        *logger.Logger
	now        func() time.Time
	windowDays int
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source, used by tests for deterministic
// default date bounds
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSnapshotCache enables caching of the simple summary rollup
func WithSnapshotCache(cache opportunity.SnapshotCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithDefaultWindowDays overrides the fallback lookback window
func WithDefaultWindowDays(days int) Option {
	return func(s *Service) { s.windowDays = days }
}

// New creates a cost report service
func New(repo opportunity.Repository, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		log:        log,
		now:        time.Now,
		windowDays: 30,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary computes the date-range cost summary over [start, end]
// inclusive. Validation failures are raised before any aggregation runs.
func (s *Service) Summary(ctx context.Context, r Range) (opportunity.Summary, error) {
	start, end, err := s.resolveRange(r)
	if err != nil {
		metrics.QueryExecutions.WithLabelValues("summary", "invalid").Inc()
		return opportunity.ZeroSummary(), err
	}

	began := time.Now()
	records, err := s.repo.ListByDateRange(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		metrics.QueryExecutions.WithLabelValues("summary", "error").Inc()
		return opportunity.ZeroSummary(), errors.Wrap(err, "failed to list workflow results")
	}

	summary := rollup(perDayStats(records), daysInclusive(start, end))

	metrics.QueryExecutions.WithLabelValues("summary", "success").Inc()
	metrics.QueryDuration.WithLabelValues("summary").Observe(time.Since(began).Seconds())

	s.log.Debugw("cost summary computed",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"records", summary.TotalOpportunities,
	)

	return summary, nil
}

// SimpleSummary returns the always-current rollup over the full
// historical record set. It serves the cached snapshot when present;
// staleness is bounded by the cache TTL (eventual consistency is
// acceptable here, snapshot correctness is not required).
func (s *Service) SimpleSummary(ctx context.Context) (opportunity.Summary, error) {
	if s.cache != nil {
		snapshot, err := s.cache.GetSummarySnapshot(ctx)
		switch {
		case err == nil:
			metrics.SnapshotCacheReads.WithLabelValues("hit").Inc()
			return *snapshot, nil
		case errors.Is(err, errors.ErrCacheMiss):
			metrics.SnapshotCacheReads.WithLabelValues("miss").Inc()
		default:
			metrics.SnapshotCacheReads.WithLabelValues("error").Inc()
			s.log.Warnw("summary snapshot read failed, recomputing", "error", err)
		}
	}

	return s.RefreshSnapshot(ctx)
}

// RefreshSnapshot recomputes the full-history rollup and stores it in the
// snapshot cache. Cache write failures are logged, not surfaced: the
// freshly computed summary is still valid.
func (s *Service) RefreshSnapshot(ctx context.Context) (opportunity.Summary, error) {
	began := time.Now()

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		metrics.QueryExecutions.WithLabelValues("simple_summary", "error").Inc()
		return opportunity.ZeroSummary(), errors.Wrap(err, "failed to list workflow results")
	}

	days := perDayStats(records)

	// Span runs from the earliest record's day through today, so the
	// daily average reflects the whole history including quiet days.
	var spanDays int64
	if len(records) > 0 {
		spanDays = daysInclusive(records[0].Day(), truncateDay(s.now()))
	}
	summary := rollup(days, spanDays)

	if s.cache != nil {
		if err := s.cache.SetSummarySnapshot(ctx, &summary); err != nil {
			s.log.Warnw("summary snapshot write failed", "error", err)
		}
	}

	metrics.QueryExecutions.WithLabelValues("simple_summary", "success").Inc()
	metrics.QueryDuration.WithLabelValues("simple_summary").Observe(time.Since(began).Seconds())

	return summary, nil
}

// AnalyzeByDateRange computes one summary per day/week/month bucket over
// [start, end] inclusive. Buckets with no matching records are emitted
// zero-filled, and results are always in ascending chronological order.
func (s *Service) AnalyzeByDateRange(ctx context.Context, r Range, groupBy opportunity.GroupBy) ([]opportunity.BucketSummary, error) {
	if groupBy == "" {
		groupBy = opportunity.GroupByDay
	}
	if !groupBy.Valid() {
		metrics.QueryExecutions.WithLabelValues("analyze", "invalid").Inc()
		return nil, errors.Wrapf(errors.ErrInvalidGroupBy, "got %q", string(groupBy))
	}

	start, end, err := s.resolveRange(r)
	if err != nil {
		metrics.QueryExecutions.WithLabelValues("analyze", "invalid").Inc()
		return nil, err
	}

	began := time.Now()
	records, err := s.repo.ListByDateRange(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		metrics.QueryExecutions.WithLabelValues("analyze", "error").Inc()
		return nil, errors.Wrap(err, "failed to list workflow results")
	}

	days := perDayStats(records)

	var buckets []opportunity.BucketSummary
	for bucket := bucketStartFor(start, groupBy); !bucket.After(end); bucket = nextBucketStart(bucket, groupBy) {
		// Clamp the bucket to the requested range so daily averages in
		// partial first/last buckets divide by the covered days only
		lo := maxTime(bucket, start)
		hi := minTime(nextBucketStart(bucket, groupBy).AddDate(0, 0, -1), end)

		scoped := make(map[time.Time]*dayStat)
		for day, stat := range days {
			if !day.Before(lo) && !day.After(hi) {
				scoped[day] = stat
			}
		}

		buckets = append(buckets, opportunity.BucketSummary{
			Bucket:      bucketLabel(bucket, groupBy),
			BucketStart: bucket,
			Summary:     rollup(scoped, daysInclusive(lo, hi)),
		})
	}

	metrics.QueryExecutions.WithLabelValues("analyze", "success").Inc()
	metrics.QueryDuration.WithLabelValues("analyze").Observe(time.Since(began).Seconds())

	return buckets, nil
}

// resolveRange applies per-call defaults, truncates bounds to UTC calendar
// days and enforces start <= end. Bounds are never swapped or clamped.
func (s *Service) resolveRange(r Range) (time.Time, time.Time, error) {
	today := truncateDay(s.now())

	end := today
	if !r.End.IsZero() {
		end = truncateDay(r.End)
	}

	start := today.AddDate(0, 0, -s.windowDays)
	if !r.Start.IsZero() {
		start = truncateDay(r.Start)
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrInvalidRange,
			"start_date %s is after end_date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	return start, end, nil
}
