package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/sartorproj/goarima/arima"
	"github.com/sartorproj/goarima/stats"
	"github.com/sartorproj/goarima/timeseries"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"timeseer/internal/dataprocessing"
)

// intervalLevel is the coverage of reported prediction intervals
const intervalLevel = 0.95

// Order is a non-seasonal ARIMA order
type Order struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`
}

// DefaultOrder is used by FitARIMA when no order is given
var DefaultOrder = Order{P: 2, D: 1, Q: 0}

func orderOf(m *arima.Model) Order {
	return Order{P: m.Order.P, D: m.Order.D, Q: m.Order.Q}
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

// TestResult is a portmanteau test outcome
type TestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Lags      int     `json:"lags"`
}

// ModelSummary describes a fitted manual ARIMA model
type ModelSummary struct {
	Order     Order       `json:"order"`
	ARCoeffs  []float64   `json:"ar_coefficients"`
	MACoeffs  []float64   `json:"ma_coefficients"`
	Intercept float64     `json:"intercept"`
	Variance  float64     `json:"sigma2"`
	AIC       float64     `json:"aic"`
	AICc      float64     `json:"aicc"`
	BIC       float64     `json:"bic"`
	LogLik    float64     `json:"log_likelihood"`
	NObs      int         `json:"observations"`
	LjungBox  *TestResult `json:"ljung_box,omitempty"`
}

// ResidualDiagnostics summarises the manual model's in-sample residuals
type ResidualDiagnostics struct {
	Residuals []float64 `json:"residuals"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
	Skewness  float64   `json:"skewness"`
	Kurtosis  float64   `json:"excess_kurtosis"`

	// JarqueBera tests normality; Normal means p > 0.05
	JarqueBera TestResult `json:"jarque_bera"`
	Normal     bool       `json:"normal"`

	LjungBox     *TestResult `json:"ljung_box,omitempty"`
	DurbinWatson float64     `json:"durbin_watson"`
}

// Forecast holds point forecasts with 95% prediction intervals
type Forecast struct {
	Values []float64 `json:"forecast"`
	Lower  []float64 `json:"lower"`
	Upper  []float64 `json:"upper"`
	// Labels are dates (YYYY-MM-DD) or row positions for each step
	Labels []string `json:"labels"`
}

// Len returns the number of forecast steps
func (f *Forecast) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Values)
}

// FitARIMA fits ARIMA(order) on the training set
func (a *Analyzer) FitARIMA(order Order) (*ModelSummary, error) {
	if a.train == nil {
		return nil, ErrNoTrainData
	}
	if order.P < 0 || order.D < 0 || order.Q < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrder, order)
	}

	model := arima.New(order.P, order.D, order.Q)
	start := time.Now()
	if err := model.Fit(a.train.toTimeSeries()); err != nil {
		return nil, fmt.Errorf("fit ARIMA%s on %d observations: %w", order, a.train.Len(), err)
	}
	a.manual = model

	summary := a.ModelSummary()
	a.logger.Info("ARIMA model fitted",
		slog.String("order", order.String()),
		slog.Float64("aic", summary.AIC),
		slog.Float64("bic", summary.BIC),
		slog.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// ModelSummary describes the fitted manual model, or nil when there is none
func (a *Analyzer) ModelSummary() *ModelSummary {
	if a.manual == nil {
		return nil
	}
	s := a.manual.Summary()
	summary := &ModelSummary{
		Order:     orderOf(a.manual),
		ARCoeffs:  append([]float64(nil), s.ARCoeffs...),
		MACoeffs:  append([]float64(nil), s.MACoeffs...),
		Intercept: s.Intercept,
		Variance:  s.Variance,
		AIC:       s.AIC,
		AICc:      s.AICc,
		BIC:       s.BIC,
		LogLik:    s.LogLik,
		NObs:      s.NObs,
	}
	if s.LjungBox != nil {
		summary.LjungBox = &TestResult{Statistic: s.LjungBox.Statistic, PValue: s.LjungBox.PValue, Lags: s.LjungBox.Lags}
	}
	return summary
}

// ResidualDiagnostics analyses the manual model's residuals, dropping the
// first one which absorbs the differencing start-up
func (a *Analyzer) ResidualDiagnostics() (*ResidualDiagnostics, error) {
	if a.manual == nil {
		return nil, ErrNoModel
	}

	all := a.manual.Residuals()
	if len(all) < 4 {
		return nil, ErrTooFewResiduals
	}
	residuals := all[1:]
	n := float64(len(residuals))

	mean, std := stat.MeanStdDev(residuals, nil)
	diag := &ResidualDiagnostics{
		Residuals: residuals,
		Mean:      mean,
		StdDev:    std,
	}

	if std > 0 {
		diag.Skewness = stat.Skew(residuals, nil)
		diag.Kurtosis = stat.ExKurtosis(residuals, nil)
	}

	jb := n / 6 * (diag.Skewness*diag.Skewness + diag.Kurtosis*diag.Kurtosis/4)
	chi2 := distuv.ChiSquared{K: 2}
	diag.JarqueBera = TestResult{Statistic: jb, PValue: 1 - chi2.CDF(jb), Lags: 2}
	diag.Normal = diag.JarqueBera.PValue > significance

	order := a.manual.Order
	lags := min(10, len(residuals)-1)
	if lb := stats.LjungBox(timeseries.New(residuals), lags, order.P+order.Q); lb != nil {
		diag.LjungBox = &TestResult{Statistic: lb.Statistic, PValue: lb.PValue, Lags: lb.Lags}
	}
	if dw := stats.DurbinWatson(residuals); dw != nil {
		diag.DurbinWatson = dw.Statistic
	}
	return diag, nil
}

// Forecast predicts steps ahead from the manual model; steps <= 0 means the
// length of the test set
func (a *Analyzer) Forecast(steps int) (*Forecast, error) {
	if a.manual == nil {
		return nil, ErrNoModel
	}
	if a.test == nil {
		return nil, ErrNoTestData
	}
	if steps <= 0 {
		steps = a.test.Len()
	}

	points, err := a.manual.Predict(steps)
	if err != nil {
		return nil, fmt.Errorf("ARIMA%s forecast: %w", orderOf(a.manual), err)
	}
	lower, upper := predictionIntervals(points, a.manual.Variance, a.manual.Order.D, 0, 0)

	return &Forecast{Values: points, Lower: lower, Upper: upper, Labels: a.horizonLabels(steps)}, nil
}

// predictionIntervals widens a constant residual band with the horizon for
// integrated models, matching goarima's SARIMA interval approximation
func predictionIntervals(points []float64, variance float64, d, sd, period int) (lower, upper []float64) {
	z := distuv.UnitNormal.Quantile((1 + intervalLevel) / 2)
	base := math.Sqrt(math.Max(variance, 0))

	lower = make([]float64, len(points))
	upper = make([]float64, len(points))
	for h, p := range points {
		growth := 1.0
		if d > 0 {
			growth *= math.Sqrt(float64(h + 1))
		}
		if sd > 0 && period > 0 {
			growth *= math.Sqrt(float64(h/period + 1))
		}
		half := z * base * growth
		lower[h] = p - half
		upper[h] = p + half
	}
	return lower, upper
}

// horizonLabels labels forecast steps with the test dates first and month
// starts after the series end beyond them
func (a *Analyzer) horizonLabels(steps int) []string {
	labels := make([]string, 0, steps)
	testLabels := a.test.Labels()
	for i := 0; i < steps && i < len(testLabels); i++ {
		labels = append(labels, testLabels[i])
	}
	extra := steps - len(labels)
	if extra <= 0 {
		return labels
	}

	if last, ok := a.series.Last(); ok {
		for _, d := range MonthStartsAfter(last, extra) {
			labels = append(labels, dataprocessing.FormatDate(d))
		}
		return labels
	}
	end := a.test.Offset + a.test.Len()
	for i := 0; i < extra; i++ {
		labels = append(labels, strconv.Itoa(end+i))
	}
	return labels
}
