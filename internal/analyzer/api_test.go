package analyzer

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeseer/internal/evaluation"
	"timeseer/internal/shared/testutil"
	api "timeseer/pkg/contracts/api/v1"
)

func TestRunAPIAnalysis_Manual(t *testing.T) {
	cfg := api.DefaultAnalysisConfig()
	cfg.ModelType = api.ModelTypeManual
	cfg.Order = api.Order{P: 1, D: 1, Q: 0}

	a := newTestAnalyzer(t)
	res := a.RunAPIAnalysis(testutil.Records(48), "value", cfg)
	require.Empty(t, res.Error)

	assert.Len(t, res.Forecast, 10)
	require.Len(t, res.Dates, 10)
	assert.Equal(t, "2022-03-01", res.Dates[0])
	assert.InDelta(t, evaluation.APIAccuracy(res.Metrics.R2), res.Metrics.Accuracy, 1e-12)

	require.NotNil(t, res.Config)
	assert.Equal(t, &api.Order{P: 1, D: 1, Q: 0}, res.Config.Order)
	assert.Equal(t, 0.8, res.Config.TrainSize)
}

func TestRunAPIAnalysis_AutoEchoesNullOrder(t *testing.T) {
	a := newTestAnalyzer(t)
	res := a.RunAPIAnalysis(testutil.Records(60), "value", api.DefaultAnalysisConfig())
	require.Empty(t, res.Error)
	assert.Len(t, res.Forecast, 12)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"order":null`)
	assert.Contains(t, string(out), `"modelType":"auto"`)
	assert.NotContains(t, string(out), `"error"`)
}

func TestRunAPIAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records []map[string]any
		column  string
		mutate  func(*api.AnalysisConfig)
		wantErr string
	}{
		{name: "no records", records: nil, column: "value", wantErr: "no rows"},
		{name: "unknown column", records: testutil.Records(30), column: "price", wantErr: "Column 'price' not found in the data."},
		{name: "bad split", records: testutil.Records(30), column: "value", mutate: func(c *api.AnalysisConfig) { c.TrainSize = 1.5 }, wantErr: "train size"},
		{name: "bad period", records: testutil.Records(30), column: "value", mutate: func(c *api.AnalysisConfig) {
			c.Seasonal = true
			c.SeasonalPeriod = 1
		}, wantErr: "seasonal period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := api.DefaultAnalysisConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			res := newTestAnalyzer(t).RunAPIAnalysis(tt.records, tt.column, cfg)
			assert.Contains(t, res.Error, tt.wantErr)
			assert.Equal(t, api.AnalysisMetrics{}, res.Metrics)
			assert.Empty(t, res.Forecast)
			assert.NotNil(t, res.Forecast)
			assert.NotNil(t, res.Dates)
			assert.Nil(t, res.Config)
		})
	}
}

func TestRunAPIAnalysis_PositionalDates(t *testing.T) {
	records := make([]map[string]any, 40)
	for i, v := range testutil.TrendSeries(40) {
		records[i] = map[string]any{"value": v}
	}
	cfg := api.DefaultAnalysisConfig()
	cfg.ModelType = api.ModelTypeManual

	res := newTestAnalyzer(t).RunAPIAnalysis(records, "value", cfg)
	require.Empty(t, res.Error)
	assert.Equal(t, []string{"32", "33", "34", "35", "36", "37", "38", "39"}, res.Dates)
}
