package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"timeseer/internal/evaluation"
)

// Model names used in comparisons
const (
	ManualModelName = "Manual ARIMA"
	AutoModelName   = "Auto ARIMA"
)

// ModelEvaluation scores one model's forecast over the test set
type ModelEvaluation struct {
	Name     string            `json:"name"`
	Scores   evaluation.Scores `json:"scores"`
	Forecast *Forecast         `json:"forecast"`
}

// EvaluateModels forecasts the test horizon with every fitted model and
// scores each against the test set. The manual model comes first.
func (a *Analyzer) EvaluateModels(ctx context.Context) ([]ModelEvaluation, error) {
	if a.test == nil {
		return nil, ErrNoTestData
	}

	type job struct {
		name     string
		forecast func(int) (*Forecast, error)
	}
	var jobs []job
	if a.manual != nil {
		jobs = append(jobs, job{ManualModelName, a.Forecast})
	}
	if a.auto != nil {
		jobs = append(jobs, job{AutoModelName, a.AutoForecast})
	}

	results := make([]ModelEvaluation, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fc, err := j.forecast(a.test.Len())
			if err != nil {
				return err
			}
			scores, err := evaluation.Score(a.test.Values, fc.Values)
			if err != nil {
				return err
			}
			results[i] = ModelEvaluation{Name: j.name, Scores: *scores, Forecast: fc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
