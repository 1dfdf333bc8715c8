package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"costwatch/internal/adapters/config"
	"costwatch/internal/adapters/postgres"
)

// PostgresTestHelper manages a database connection for integration tests.
// Inserted fixture rows are tracked and removed on cleanup.
type PostgresTestHelper struct {
	client   *postgres.Client
	inserted []uuid.UUID
}

// NewPostgresTestHelper opens a connection and registers cleanup for fixtures.
func NewPostgresTestHelper(t *testing.T, cfg config.PostgresConfig) *PostgresTestHelper {
	t.Helper()

	client, err := postgres.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create postgres client: %v", err)
	}

	helper := &PostgresTestHelper{client: client}
	t.Cleanup(func() {
		helper.cleanupFixtures(t)
		_ = client.Close()
	})

	return helper
}

// DB returns the underlying database handle.
func (h *PostgresTestHelper) DB() *sqlx.DB {
	return h.client.DB()
}

// WorkflowResultFixture describes one row to insert for a test.
type WorkflowResultFixture struct {
	ProcessedAt time.Time
	Tracked     bool
	CostUSD     decimal.Decimal
	Tokens      int64
	Model       string
}

// InsertWorkflowResult inserts a fixture row and schedules its removal.
func (h *PostgresTestHelper) InsertWorkflowResult(t *testing.T, f WorkflowResultFixture) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := h.client.DB().ExecContext(context.Background(), `
		INSERT INTO workflow_results (
			id, processed_at, cost_tracking_enabled,
			llm_total_cost_usd, llm_total_tokens, llm_model_used
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, f.ProcessedAt, f.Tracked, f.CostUSD, f.Tokens, f.Model,
	)
	if err != nil {
		t.Fatalf("failed to insert workflow result fixture: %v", err)
	}

	h.inserted = append(h.inserted, id)
	return id
}

func (h *PostgresTestHelper) cleanupFixtures(t *testing.T) {
	for _, id := range h.inserted {
		if _, err := h.client.DB().ExecContext(context.Background(),
			`DELETE FROM workflow_results WHERE id = $1`, id); err != nil {
			t.Logf("failed to delete fixture %s: %v", id, err)
		}
	}
	h.inserted = nil
}

// NewTestPostgres creates a test postgres helper with config loaded from env.
// Tests are skipped when the integration environment is not configured.
func NewTestPostgres(t *testing.T) *PostgresTestHelper {
	t.Helper()

	dbConfigs := LoadDatabaseConfigsFromEnv(t)

	return NewPostgresTestHelper(t, dbConfigs.Postgres)
}
