package opportunity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costwatch/pkg/errors"
)

func TestParseGroupBy(t *testing.T) {
	tests := []struct {
		input   string
		want    GroupBy
		wantErr bool
	}{
		{"day", GroupByDay, false},
		{"week", GroupByWeek, false},
		{"month", GroupByMonth, false},
		{"", GroupByDay, false},
		{"quarter", "", true},
		{"Day", "", true},
		{"daily", "", true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			got, err := ParseGroupBy(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidGroupBy))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZeroSummaryJSON(t *testing.T) {
	data, err := json.Marshal(ZeroSummary())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Every aggregate column is present with an explicit zero value
	for _, key := range []string{
		"total_opportunities", "opportunities_with_costs", "total_cost_usd",
		"avg_cost_per_opportunity", "total_tokens", "avg_tokens_per_opportunity",
		"models_used", "daily_avg_cost", "peak_daily_cost",
	} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, "0", decoded["total_cost_usd"])
}
