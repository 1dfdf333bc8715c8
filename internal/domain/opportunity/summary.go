package opportunity

import (
	"time"

	"github.com/shopspring/decimal"

	"costwatch/pkg/errors"
)

// GroupBy is the bucketing granularity for grouped cost analysis
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// ParseGroupBy validates a granularity selector. An empty value falls back
// to day grouping; anything outside the enumerated set is rejected.
func ParseGroupBy(value string) (GroupBy, error) {
	switch GroupBy(value) {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByWeek, GroupByMonth:
		return GroupBy(value), nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidGroupBy, "got %q", value)
	}
}

// Valid reports whether the granularity is one of the enumerated values
func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth:
		return true
	}
	return false
}

// Summary is the aggregate row returned by every cost analytics operation.
// All decimal fields are zero (never absent) when no records match.
type Summary struct {
	TotalOpportunities      int64           `json:"total_opportunities"`
	OpportunitiesWithCosts  int64           `json:"opportunities_with_costs"`
	TotalCostUSD            decimal.Decimal `json:"total_cost_usd"`
	AvgCostPerOpportunity   decimal.Decimal `json:"avg_cost_per_opportunity"`
	TotalTokens             int64           `json:"total_tokens"`
	AvgTokensPerOpportunity decimal.Decimal `json:"avg_tokens_per_opportunity"`
	ModelsUsed              int64           `json:"models_used"`
	DailyAvgCost            decimal.Decimal `json:"daily_avg_cost"`
	PeakDailyCost           decimal.Decimal `json:"peak_daily_cost"`
}

// ZeroSummary returns a summary with all decimal fields explicitly zeroed,
// so JSON output reports "0" rather than omitted values.
func ZeroSummary() Summary {
	return Summary{
		TotalCostUSD:            decimal.Zero,
		AvgCostPerOpportunity:   decimal.Zero,
		AvgTokensPerOpportunity: decimal.Zero,
		DailyAvgCost:            decimal.Zero,
		PeakDailyCost:           decimal.Zero,
	}
}

// BucketSummary is one row of the grouped analysis: the shared aggregate
// shape scoped to a single day/week/month bucket.
type BucketSummary struct {
	Bucket      string    `json:"bucket"`
	BucketStart time.Time `json:"bucket_start"`
	Summary
}
