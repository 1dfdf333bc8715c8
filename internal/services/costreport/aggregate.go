package costreport

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"costwatch/internal/domain/opportunity"
)

// dayStat is the per-day intermediate aggregate. The final rollup is always
// computed in two stages (records -> per-day stats -> summary) so that peak
// and average daily figures come from the same named intermediate, never
// from one deeply nested expression.
type dayStat struct {
	total   int64
	tracked int64
	cost    decimal.Decimal
	tokens  int64
	models  map[string]struct{}
}

func newDayStat() *dayStat {
	return &dayStat{cost: decimal.Zero, models: make(map[string]struct{})}
}

// perDayStats partitions records into per-day aggregates keyed by UTC
// calendar day. Cost, token and model figures only accumulate for records
// with cost tracking enabled; untracked records count toward totals only.
func perDayStats(records []opportunity.Opportunity) map[time.Time]*dayStat {
	days := make(map[time.Time]*dayStat)
	for _, rec := range records {
		day := rec.Day()
		stat, ok := days[day]
		if !ok {
			stat = newDayStat()
			days[day] = stat
		}

		stat.total++
		if !rec.Tracked() {
			continue
		}

		stat.tracked++
		stat.cost = stat.cost.Add(rec.LLMTotalCostUSD)
		stat.tokens += rec.LLMTotalTokens
		if rec.LLMModelUsed != "" {
			stat.models[rec.LLMModelUsed] = struct{}{}
		}
	}
	return days
}

// rollup combines per-day aggregates into the final summary. spanDays is
// the number of calendar days covered by the requested range; it divides
// the daily average, so quiet days pull the average down.
func rollup(days map[time.Time]*dayStat, spanDays int64) opportunity.Summary {
	summary := opportunity.ZeroSummary()
	models := make(map[string]struct{})

	for _, stat := range days {
		summary.TotalOpportunities += stat.total
		summary.OpportunitiesWithCosts += stat.tracked
		summary.TotalCostUSD = summary.TotalCostUSD.Add(stat.cost)
		summary.TotalTokens += stat.tokens
		for model := range stat.models {
			models[model] = struct{}{}
		}
		if stat.cost.GreaterThan(summary.PeakDailyCost) {
			summary.PeakDailyCost = stat.cost
		}
	}

	summary.ModelsUsed = int64(len(models))

	// Averages substitute zero instead of an undefined ratio
	if summary.OpportunitiesWithCosts > 0 {
		tracked := decimal.NewFromInt(summary.OpportunitiesWithCosts)
		summary.AvgCostPerOpportunity = summary.TotalCostUSD.Div(tracked)
		summary.AvgTokensPerOpportunity = decimal.NewFromInt(summary.TotalTokens).Div(tracked)
	}
	if spanDays > 0 {
		summary.DailyAvgCost = summary.TotalCostUSD.Div(decimal.NewFromInt(spanDays))
	}

	return summary
}

// truncateDay drops the time-of-day component, in UTC
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysInclusive counts calendar days in [start, end], both at midnight UTC
func daysInclusive(start, end time.Time) int64 {
	return int64(end.Sub(start).Hours()/24) + 1
}

// bucketStartFor returns the start of the bucket containing the given day.
// Weeks start on Monday, months on the first.
func bucketStartFor(day time.Time, groupBy opportunity.GroupBy) time.Time {
	switch groupBy {
	case opportunity.GroupByWeek:
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday belongs to the week started the previous Monday
		}
		return day.AddDate(0, 0, -(weekday - 1))
	case opportunity.GroupByMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// nextBucketStart advances to the start of the following bucket
func nextBucketStart(start time.Time, groupBy opportunity.GroupBy) time.Time {
	switch groupBy {
	case opportunity.GroupByWeek:
		return start.AddDate(0, 0, 7)
	case opportunity.GroupByMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// bucketLabel renders the chronological label for a bucket
func bucketLabel(start time.Time, groupBy opportunity.GroupBy) string {
	switch groupBy {
	case opportunity.GroupByWeek:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case opportunity.GroupByMonth:
		return start.Format("2006-01")
	default:
		return start.Format("2006-01-02")
	}
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
