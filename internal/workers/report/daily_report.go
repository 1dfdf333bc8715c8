package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"costwatch/internal/domain/opportunity"
	"costwatch/internal/metrics"
	"costwatch/internal/services/costreport"
	"costwatch/internal/workers"
	"costwatch/pkg/errors"
)

// Notifier delivers formatted report messages to operators
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// DailyReport computes yesterday's cost summary once per day and delivers
// it through the configured notifier.
type DailyReport struct {
	*workers.BaseWorker
	service  *costreport.Service
	notifier Notifier
}

// NewDailyReport creates a new daily report worker
func NewDailyReport(service *costreport.Service, notifier Notifier, interval time.Duration, enabled bool) *DailyReport {
	return &DailyReport{
		BaseWorker: workers.NewBaseWorker("daily_report", interval, enabled),
		service:    service,
		notifier:   notifier,
	}
}

// Run executes one report iteration
func (dr *DailyReport) Run(ctx context.Context) error {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	summary, err := dr.service.Summary(ctx, costreport.Range{Start: yesterday, End: yesterday})
	if err != nil {
		return errors.Wrap(err, "failed to compute daily summary")
	}

	text := formatDailyReport(yesterday, summary)

	err = dr.notifier.Send(ctx, text)
	metrics.RecordReportSent(err)
	if err != nil {
		return errors.Wrap(err, "failed to send daily report")
	}

	dr.Log().Info("Daily cost report sent",
		"date", yesterday.Format("2006-01-02"),
		"total_opportunities", summary.TotalOpportunities,
		"total_cost_usd", summary.TotalCostUSD,
	)

	return nil
}

// formatDailyReport renders the summary as a plain text message
func formatDailyReport(date time.Time, s opportunity.Summary) string {
	return fmt.Sprintf(
		"LLM cost report for %s\n"+
			"Opportunities: %s (%s with costs)\n"+
			"Total cost: $%s\n"+
			"Avg cost per opportunity: $%s\n"+
			"Tokens: %s\n"+
			"Models used: %d",
		date.Format("2006-01-02"),
		humanize.Comma(s.TotalOpportunities),
		humanize.Comma(s.OpportunitiesWithCosts),
		s.TotalCostUSD.StringFixed(2),
		s.AvgCostPerOpportunity.StringFixed(4),
		humanize.Comma(s.TotalTokens),
		s.ModelsUsed,
	)
}
