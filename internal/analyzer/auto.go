package analyzer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sartorproj/goarima/autoarima"
)

// AutoSummary describes the model chosen by the auto ARIMA search
type AutoSummary struct {
	Order Order `json:"order"`
	// SeasonalOrder is (P,D,Q,m); zero for non-seasonal models
	SeasonalOrder   [4]int  `json:"seasonal_order"`
	IsSeasonal      bool    `json:"seasonal"`
	AIC             float64 `json:"aic"`
	BIC             float64 `json:"bic"`
	LogLik          float64 `json:"log_likelihood"`
	Criterion       string  `json:"criterion"`
	ModelsEvaluated int     `json:"models_evaluated"`
}

// Label renders the chosen model as ARIMA(p,d,q)(P,D,Q)[m]
func (s *AutoSummary) Label() string {
	if !s.IsSeasonal {
		return "ARIMA" + s.Order.String()
	}
	so := s.SeasonalOrder
	return fmt.Sprintf("ARIMA%s(%d,%d,%d)[%d]", s.Order, so[0], so[1], so[2], so[3])
}

// FitAutoARIMA runs a stepwise order search on the training set. With
// seasonal set only period m is considered.
func (a *Analyzer) FitAutoARIMA(seasonal bool, m int) (*AutoSummary, error) {
	if a.train == nil {
		return nil, ErrNoTrainData
	}
	if seasonal && m < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPeriod, m)
	}

	cfg := autoarima.DefaultConfig()
	cfg.MaxP = a.opts.AutoMaxP
	cfg.MaxD = a.opts.AutoMaxD
	cfg.MaxQ = a.opts.AutoMaxQ
	cfg.Criterion = a.opts.Criterion
	cfg.Stepwise = true
	cfg.Seasonal = seasonal
	if seasonal {
		cfg.SeasonalM = m
	}

	start := time.Now()
	result, err := autoarima.AutoARIMA(a.train.toTimeSeries(), cfg)
	if err != nil {
		return nil, fmt.Errorf("auto ARIMA search: %w", err)
	}
	if result == nil || (result.Model == nil && result.SeasonalModel == nil) {
		return nil, ErrNoAutoResult
	}
	a.auto = result

	summary := a.AutoSummary()
	a.logger.Info("auto ARIMA model selected",
		slog.String("model", summary.Label()),
		slog.Int("models_evaluated", summary.ModelsEvaluated),
		slog.Float64("aic", summary.AIC),
		slog.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// AutoSummary describes the selected auto model, or nil when there is none
func (a *Analyzer) AutoSummary() *AutoSummary {
	r := a.auto
	if r == nil {
		return nil
	}
	summary := &AutoSummary{
		Order:           Order{P: r.P, D: r.D, Q: r.Q},
		IsSeasonal:      r.IsSeasonal,
		AIC:             r.AIC,
		BIC:             r.BIC,
		LogLik:          r.LogLik,
		Criterion:       a.opts.Criterion,
		ModelsEvaluated: r.ModelsEvaluated,
	}
	if r.IsSeasonal {
		summary.SeasonalOrder = [4]int{r.SP, r.SD, r.SQ, r.M}
	}
	return summary
}

// AutoForecast predicts from the auto model; steps <= 0 means the length of
// the test set
func (a *Analyzer) AutoForecast(steps int) (*Forecast, error) {
	if a.auto == nil {
		return nil, ErrNoAutoModel
	}
	if a.test == nil {
		return nil, ErrNoTestData
	}
	if steps <= 0 {
		steps = a.test.Len()
	}

	var (
		points, lower, upper []float64
		err                  error
	)
	if a.auto.IsSeasonal && a.auto.SeasonalModel != nil {
		points, lower, upper, err = a.auto.SeasonalModel.PredictWithInterval(steps, intervalLevel)
	} else {
		points, err = a.auto.Predict(steps)
		if err == nil {
			lower, upper = predictionIntervals(points, a.auto.Model.Variance, a.auto.D, 0, 0)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("auto ARIMA forecast: %w", err)
	}

	return &Forecast{Values: points, Lower: lower, Upper: upper, Labels: a.horizonLabels(steps)}, nil
}
