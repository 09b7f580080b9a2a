package analyzer

import (
	"fmt"
	"log/slog"

	"timeseer/internal/evaluation"
	api "timeseer/pkg/contracts/api/v1"
)

// RunAPIAnalysis runs the batch workflow on records: load, select column,
// split, fit the configured model and forecast the test window. Failures
// are reported inside the result, never returned.
func (a *Analyzer) RunAPIAnalysis(records []map[string]any, column string, cfg api.AnalysisConfig) api.AnalysisResult {
	result, err := a.runAPIAnalysis(records, column, cfg)
	if err != nil {
		a.logger.Warn("API analysis failed",
			slog.String("column", column),
			slog.String("error", err.Error()),
		)
		return api.FailedAnalysis(err)
	}
	return result
}

func (a *Analyzer) runAPIAnalysis(records []map[string]any, column string, cfg api.AnalysisConfig) (api.AnalysisResult, error) {
	if err := a.LoadRecords(records); err != nil {
		return api.AnalysisResult{}, fmt.Errorf("load data: %w", err)
	}
	if err := a.SelectColumn(column); err != nil {
		return api.AnalysisResult{}, err
	}
	if err := a.SplitData(cfg.TrainSize); err != nil {
		return api.AnalysisResult{}, err
	}

	var (
		fc  *Forecast
		err error
	)
	if cfg.ModelType == api.ModelTypeAuto {
		if _, err = a.FitAutoARIMA(cfg.Seasonal, cfg.SeasonalPeriod); err != nil {
			return api.AnalysisResult{}, err
		}
		fc, err = a.AutoForecast(0)
	} else {
		order := Order{P: cfg.Order.P, D: cfg.Order.D, Q: cfg.Order.Q}
		if _, err = a.FitARIMA(order); err != nil {
			return api.AnalysisResult{}, err
		}
		fc, err = a.Forecast(0)
	}
	if err != nil {
		return api.AnalysisResult{}, err
	}

	scores, err := evaluation.Score(a.test.Values, fc.Values)
	if err != nil {
		return api.AnalysisResult{}, err
	}

	echo := &api.AnalysisConfigEcho{
		ModelType:      cfg.ModelType,
		TrainSize:      cfg.TrainSize,
		Seasonal:       cfg.Seasonal,
		SeasonalPeriod: cfg.SeasonalPeriod,
	}
	if cfg.ModelType == api.ModelTypeManual {
		order := cfg.Order
		echo.Order = &order
	}

	return api.AnalysisResult{
		Metrics: api.AnalysisMetrics{
			RMSE:     scores.RMSE,
			MAE:      scores.MAE,
			R2:       scores.R2,
			Accuracy: evaluation.APIAccuracy(scores.R2),
		},
		Forecast: fc.Values,
		Dates:    a.test.Labels(),
		Config:   echo,
	}, nil
}
