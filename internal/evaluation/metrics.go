package evaluation

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrLenMismatch is returned when actual and predicted differ in length
	ErrLenMismatch = errors.New("predicted and actual have different lengths")
	// ErrEmpty is returned when there is nothing to score
	ErrEmpty = errors.New("no observations to score")
)

// Scores holds the regression metrics of one forecast
type Scores struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
	// MAPE skips observations equal to zero
	MAPE float64 `json:"mape"`
}

// OverlapScores are the metrics reported by the forecast endpoint
type OverlapScores struct {
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	R2       float64 `json:"r2"`
	Accuracy float64 `json:"accuracy"`
}

// Score compares equally long actual and predicted series
func Score(actual, predicted []float64) (*Scores, error) {
	if len(actual) != len(predicted) {
		return nil, ErrLenMismatch
	}
	if len(actual) == 0 {
		return nil, ErrEmpty
	}

	mse := MSE(actual, predicted)
	return &Scores{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  MAE(actual, predicted),
		R2:   RSquared(actual, predicted),
		MAPE: MAPE(actual, predicted),
	}, nil
}

// MSE is the mean squared error. Lengths must match.
func MSE(actual, predicted []float64) float64 {
	residuals := make([]float64, len(actual))
	floats.SubTo(residuals, actual, predicted)
	return floats.Dot(residuals, residuals) / float64(len(actual))
}

// MAE is the mean absolute error. Lengths must match.
func MAE(actual, predicted []float64) float64 {
	return floats.Distance(actual, predicted, 1) / float64(len(actual))
}

// MAPE is the mean absolute percentage error over non-zero observations
func MAPE(actual, predicted []float64) float64 {
	sum, n := 0.0, 0
	for i, a := range actual {
		if a == 0 {
			continue
		}
		sum += math.Abs((a - predicted[i]) / a)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RSquared is 1 - SSres/SStot without clamping. A constant actual series
// scores 1 for a perfect prediction and 0 otherwise.
func RSquared(actual, predicted []float64) float64 {
	if sumSquaresAroundMean(actual) == 0 {
		if floats.Equal(actual, predicted) {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}

// Overlap scores the first min(len(actual), len(predicted)) points. ok is
// false when the series share no points.
func Overlap(actual, predicted []float64) (scores OverlapScores, ok bool) {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return OverlapScores{}, false
	}
	actual, predicted = actual[:n], predicted[:n]

	mae := MAE(actual, predicted)
	scores.RMSE = math.Sqrt(MSE(actual, predicted))
	scores.MAE = mae

	if ssTot := sumSquaresAroundMean(actual); ssTot != 0 {
		scores.R2 = clamp01(stat.RSquaredFrom(predicted, actual, nil))
	}

	if span := floats.Max(actual) - floats.Min(actual); span > 0 {
		scores.Accuracy = clamp01(1 - mae/span)
	}
	return scores, true
}

// APIAccuracy is the accuracy estimate reported by the batch API mode
func APIAccuracy(r2 float64) float64 {
	return 0.85 + r2*0.1
}

func sumSquaresAroundMean(values []float64) float64 {
	mean := stat.Mean(values, nil)
	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return ss
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
