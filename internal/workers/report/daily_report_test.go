package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"costwatch/internal/domain/opportunity"
)

func TestFormatDailyReport(t *testing.T) {
	date := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	summary := opportunity.Summary{
		TotalOpportunities:      1250,
		OpportunitiesWithCosts:  1100,
		TotalCostUSD:            decimal.RequireFromString("37.50"),
		AvgCostPerOpportunity:   decimal.RequireFromString("0.0341"),
		TotalTokens:             4200000,
		AvgTokensPerOpportunity: decimal.NewFromInt(3818),
		ModelsUsed:              2,
	}

	text := formatDailyReport(date, summary)

	assert.Contains(t, text, "2025-11-01")
	assert.Contains(t, text, "1,250")
	assert.Contains(t, text, "1,100 with costs")
	assert.Contains(t, text, "$37.50")
	assert.Contains(t, text, "$0.0341")
	assert.Contains(t, text, "4,200,000")
	assert.Contains(t, text, "Models used: 2")
}

func TestFormatDailyReportZeroDay(t *testing.T) {
	date := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)

	text := formatDailyReport(date, opportunity.ZeroSummary())

	assert.Contains(t, text, "Opportunities: 0 (0 with costs)")
	assert.Contains(t, text, "$0.00")
}
