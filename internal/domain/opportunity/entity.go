package opportunity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Opportunity is a single workflow result record subject to cost analysis.
// Records are produced by an external ingestion pipeline and are read-only
// from the analytics layer's perspective.
type Opportunity struct {
	ID          uuid.UUID `db:"id"`
	ProcessedAt time.Time `db:"processed_at"`

	// CostTrackingEnabled gates whether the LLM cost fields are meaningful.
	// When false the cost and token columns are stored as zero.
	CostTrackingEnabled bool `db:"cost_tracking_enabled"`

	LLMTotalCostUSD decimal.Decimal `db:"llm_total_cost_usd"`
	LLMTotalTokens  int64           `db:"llm_total_tokens"`
	LLMModelUsed    string          `db:"llm_model_used"`
}

// Tracked reports whether the record carries meaningful cost data.
func (o Opportunity) Tracked() bool {
	return o.CostTrackingEnabled
}

// Day returns the UTC calendar day the record was processed on.
func (o Opportunity) Day() time.Time {
	t := o.ProcessedAt.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
