package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costwatch/internal/testsupport"
)

// sqlSummaryRow mirrors the column set shared by the database-side
// summary function, view and grouped analysis.
type sqlSummaryRow struct {
	Bucket                  string          `db:"bucket"`
	TotalOpportunities      int64           `db:"total_opportunities"`
	OpportunitiesWithCosts  int64           `db:"opportunities_with_costs"`
	TotalCostUSD            decimal.Decimal `db:"total_cost_usd"`
	AvgCostPerOpportunity   decimal.Decimal `db:"avg_cost_per_opportunity"`
	TotalTokens             int64           `db:"total_tokens"`
	AvgTokensPerOpportunity decimal.Decimal `db:"avg_tokens_per_opportunity"`
	ModelsUsed              int64           `db:"models_used"`
	DailyAvgCost            decimal.Decimal `db:"daily_avg_cost"`
	PeakDailyCost           decimal.Decimal `db:"peak_daily_cost"`
}

func TestGetCostSummarySQL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	helper.InsertWorkflowResult(t, testsupport.WorkflowResultFixture{
		ProcessedAt: time.Date(2031, 3, 1, 9, 30, 0, 0, time.UTC),
		Tracked:     true,
		CostUSD:     decimal.RequireFromString("2.50"),
		Tokens:      1000,
		Model:       "gpt-4o",
	})
	helper.InsertWorkflowResult(t, testsupport.WorkflowResultFixture{
		ProcessedAt: time.Date(2031, 3, 2, 14, 0, 0, 0, time.UTC),
		Tracked:     false,
	})

	var row sqlSummaryRow
	err := helper.DB().Get(&row,
		`SELECT total_opportunities, opportunities_with_costs, total_cost_usd,
		        avg_cost_per_opportunity, total_tokens, avg_tokens_per_opportunity,
		        models_used, daily_avg_cost, peak_daily_cost
		 FROM get_cost_summary('2031-03-01', '2031-03-02')`)
	require.NoError(t, err)

	assert.Equal(t, int64(2), row.TotalOpportunities)
	assert.Equal(t, int64(1), row.OpportunitiesWithCosts)
	assert.True(t, row.TotalCostUSD.Equal(decimal.RequireFromString("2.50")),
		"total cost = %s", row.TotalCostUSD)
	assert.True(t, row.AvgCostPerOpportunity.Equal(decimal.RequireFromString("2.50")))
	assert.Equal(t, int64(1000), row.TotalTokens)
	assert.Equal(t, int64(1), row.ModelsUsed)
	assert.True(t, row.PeakDailyCost.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, row.DailyAvgCost.Equal(decimal.RequireFromString("1.25")),
		"daily avg = %s", row.DailyAvgCost)
}

func TestGetCostSummarySQLEmptyRangeReturnsOneZeroRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	var rows []sqlSummaryRow
	err := helper.DB().Select(&rows,
		`SELECT total_opportunities, opportunities_with_costs, total_cost_usd,
		        avg_cost_per_opportunity, total_tokens, avg_tokens_per_opportunity,
		        models_used, daily_avg_cost, peak_daily_cost
		 FROM get_cost_summary('2009-01-01', '2009-01-31')`)
	require.NoError(t, err)

	require.Len(t, rows, 1, "an empty range yields one zero-filled row, not zero rows")
	assert.Equal(t, int64(0), rows[0].TotalOpportunities)
	assert.Equal(t, int64(0), rows[0].OpportunitiesWithCosts)
	assert.True(t, rows[0].TotalCostUSD.IsZero())
	assert.True(t, rows[0].AvgCostPerOpportunity.IsZero())
	assert.Equal(t, int64(0), rows[0].ModelsUsed)
	assert.True(t, rows[0].DailyAvgCost.IsZero())
	assert.True(t, rows[0].PeakDailyCost.IsZero())
}

func TestGetCostSummarySQLInvalidRange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	var rows []sqlSummaryRow
	err := helper.DB().Select(&rows,
		`SELECT * FROM get_cost_summary('2031-06-01', '2031-05-01')`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
}

func TestAnalyzeCostsSQLZeroFilledBuckets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	helper.InsertWorkflowResult(t, testsupport.WorkflowResultFixture{
		ProcessedAt: time.Date(2031, 4, 1, 9, 0, 0, 0, time.UTC),
		Tracked:     true,
		CostUSD:     decimal.RequireFromString("2.50"),
		Tokens:      1000,
		Model:       "gpt-4o",
	})
	helper.InsertWorkflowResult(t, testsupport.WorkflowResultFixture{
		ProcessedAt: time.Date(2031, 4, 3, 11, 0, 0, 0, time.UTC),
		Tracked:     true,
		CostUSD:     decimal.RequireFromString("1.50"),
		Tokens:      500,
		Model:       "claude-sonnet",
	})

	var rows []sqlSummaryRow
	err := helper.DB().Select(&rows,
		`SELECT bucket, total_opportunities, opportunities_with_costs, total_cost_usd,
		        avg_cost_per_opportunity, total_tokens, avg_tokens_per_opportunity,
		        models_used, daily_avg_cost, peak_daily_cost
		 FROM analyze_costs_by_date_range('2031-04-01', '2031-04-03', 'day')`)
	require.NoError(t, err)

	require.Len(t, rows, 3, "a 3-day range yields exactly 3 day buckets")

	assert.Equal(t, "2031-04-01", rows[0].Bucket)
	assert.Equal(t, int64(1), rows[0].TotalOpportunities)
	assert.True(t, rows[0].TotalCostUSD.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, rows[0].PeakDailyCost.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, rows[0].DailyAvgCost.Equal(decimal.RequireFromString("2.50")))

	// Zero-activity day stays present and zero-filled
	assert.Equal(t, "2031-04-02", rows[1].Bucket)
	assert.Equal(t, int64(0), rows[1].TotalOpportunities)
	assert.True(t, rows[1].TotalCostUSD.IsZero())
	assert.True(t, rows[1].DailyAvgCost.IsZero())

	assert.Equal(t, "2031-04-03", rows[2].Bucket)
	assert.Equal(t, int64(1), rows[2].ModelsUsed)
	assert.True(t, rows[2].TotalCostUSD.Equal(decimal.RequireFromString("1.50")))
}

func TestAnalyzeCostsSQLWeekAndMonthLabels(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	processed := time.Date(2031, 5, 14, 12, 0, 0, 0, time.UTC)
	helper.InsertWorkflowResult(t, testsupport.WorkflowResultFixture{
		ProcessedAt: processed,
		Tracked:     true,
		CostUSD:     decimal.RequireFromString("3.00"),
		Tokens:      600,
		Model:       "gpt-4o",
	})

	// The SQL labels must agree with the service-side formatting
	isoYear, isoWeek := processed.ISOWeek()
	wantWeek := fmt.Sprintf("%d-W%02d", isoYear, isoWeek)

	var weekRows []sqlSummaryRow
	err := helper.DB().Select(&weekRows,
		`SELECT bucket, total_opportunities, opportunities_with_costs, total_cost_usd,
		        avg_cost_per_opportunity, total_tokens, avg_tokens_per_opportunity,
		        models_used, daily_avg_cost, peak_daily_cost
		 FROM analyze_costs_by_date_range('2031-05-14', '2031-05-14', 'week')`)
	require.NoError(t, err)
	require.Len(t, weekRows, 1)
	assert.Equal(t, wantWeek, weekRows[0].Bucket)
	// Single-day range clamps the week bucket to one covered day
	assert.True(t, weekRows[0].DailyAvgCost.Equal(decimal.RequireFromString("3.00")),
		"daily avg = %s", weekRows[0].DailyAvgCost)

	var monthRows []sqlSummaryRow
	err = helper.DB().Select(&monthRows,
		`SELECT bucket, total_opportunities, opportunities_with_costs, total_cost_usd,
		        avg_cost_per_opportunity, total_tokens, avg_tokens_per_opportunity,
		        models_used, daily_avg_cost, peak_daily_cost
		 FROM analyze_costs_by_date_range('2031-05-14', '2031-05-14', 'month')`)
	require.NoError(t, err)
	require.Len(t, monthRows, 1)
	assert.Equal(t, "2031-05", monthRows[0].Bucket)
}

func TestAnalyzeCostsSQLInvalidGroupBy(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	var rows []sqlSummaryRow
	err := helper.DB().Select(&rows,
		`SELECT * FROM analyze_costs_by_date_range('2031-05-01', '2031-05-07', 'quarter')`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid group_by")
}

func TestCostSummarySimpleViewShape(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	helper := testsupport.NewTestPostgres(t)

	var rows []sqlSummaryRow
	err := helper.DB().Select(&rows,
		`SELECT total_opportunities, opportunities_with_costs, total_cost_usd,
		        avg_cost_per_opportunity, total_tokens, avg_tokens_per_opportunity,
		        models_used, daily_avg_cost, peak_daily_cost
		 FROM cost_summary_simple`)
	require.NoError(t, err)

	require.Len(t, rows, 1, "the view always reports exactly one row")
	assert.LessOrEqual(t, rows[0].OpportunitiesWithCosts, rows[0].TotalOpportunities)
}
