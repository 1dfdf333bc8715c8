package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"costwatch/internal/domain/opportunity"
)

// Compile-time check
var _ opportunity.Repository = (*OpportunityRepository)(nil)

// OpportunityRepository implements opportunity.Repository using sqlx
type OpportunityRepository struct {
	db *sqlx.DB
}

// NewOpportunityRepository creates a new workflow result repository
func NewOpportunityRepository(db *sqlx.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

// ListByDateRange returns records with processed_at in [start, end),
// ordered by processed_at ascending
func (r *OpportunityRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]opportunity.Opportunity, error) {
	var records []opportunity.Opportunity

	query := `
		SELECT id, processed_at, cost_tracking_enabled,
		       llm_total_cost_usd, llm_total_tokens, llm_model_used
		FROM workflow_results
		WHERE processed_at >= $1 AND processed_at < $2
		ORDER BY processed_at ASC`

	err := r.db.SelectContext(ctx, &records, query, start, end)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListAll returns the full historical record set, ordered by processed_at
// ascending
func (r *OpportunityRepository) ListAll(ctx context.Context) ([]opportunity.Opportunity, error) {
	var records []opportunity.Opportunity

	query := `
		SELECT id, processed_at, cost_tracking_enabled,
		       llm_total_cost_usd, llm_total_tokens, llm_model_used
		FROM workflow_results
		ORDER BY processed_at ASC`

	err := r.db.SelectContext(ctx, &records, query)
	if err != nil {
		return nil, err
	}

	return records, nil
}
