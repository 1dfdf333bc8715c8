package costreport

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"costwatch/internal/domain/opportunity"
)

func TestBucketStartForWeek(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want string
	}{
		{"monday maps to itself", "2025-11-03", "2025-11-03"},
		{"wednesday maps to monday", "2025-11-05", "2025-11-03"},
		{"sunday belongs to the preceding monday", "2025-11-09", "2025-11-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bucketStartFor(day(tt.day), opportunity.GroupByWeek)
			assert.Equal(t, day(tt.want), got)
		})
	}
}

func TestBucketStartForMonth(t *testing.T) {
	assert.Equal(t, day("2025-11-01"), bucketStartFor(day("2025-11-30"), opportunity.GroupByMonth))
	assert.Equal(t, day("2025-11-01"), bucketStartFor(day("2025-11-01"), opportunity.GroupByMonth))
}

func TestNextBucketStartMonthLengths(t *testing.T) {
	assert.Equal(t, day("2025-03-01"), nextBucketStart(day("2025-02-01"), opportunity.GroupByMonth))
	assert.Equal(t, day("2026-01-01"), nextBucketStart(day("2025-12-01"), opportunity.GroupByMonth))
}

func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "2025-11-03", bucketLabel(day("2025-11-03"), opportunity.GroupByDay))
	assert.Equal(t, "2025-W45", bucketLabel(day("2025-11-03"), opportunity.GroupByWeek))
	assert.Equal(t, "2025-11", bucketLabel(day("2025-11-01"), opportunity.GroupByMonth))
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, int64(1), daysInclusive(day("2025-11-01"), day("2025-11-01")))
	assert.Equal(t, int64(7), daysInclusive(day("2025-11-01"), day("2025-11-07")))
	assert.Equal(t, int64(31), daysInclusive(day("2025-10-01"), day("2025-10-31")))
}

func TestTruncateDayNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 01:30 +03:00 is still the previous day in UTC
	local := time.Date(2025, 11, 2, 1, 30, 0, 0, loc)
	assert.Equal(t, day("2025-11-01"), truncateDay(local))
}

func TestRollupZeroDivisorGuards(t *testing.T) {
	summary := rollup(map[time.Time]*dayStat{}, 0)

	assert.True(t, summary.AvgCostPerOpportunity.IsZero())
	assert.True(t, summary.AvgTokensPerOpportunity.IsZero())
	assert.True(t, summary.DailyAvgCost.IsZero())
}

func TestRollupModelsDedupedAcrossDays(t *testing.T) {
	days := map[time.Time]*dayStat{
		day("2025-11-01"): {
			total: 1, tracked: 1,
			cost:   decimal.RequireFromString("1.00"),
			tokens: 100,
			models: map[string]struct{}{"gpt-4o": {}},
		},
		day("2025-11-02"): {
			total: 1, tracked: 1,
			cost:   decimal.RequireFromString("2.00"),
			tokens: 200,
			models: map[string]struct{}{"gpt-4o": {}},
		},
	}

	summary := rollup(days, 2)

	assert.Equal(t, int64(1), summary.ModelsUsed)
	assert.True(t, summary.PeakDailyCost.Equal(decimal.RequireFromString("2.00")))
}
