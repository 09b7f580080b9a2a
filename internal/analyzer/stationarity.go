package analyzer

import (
	"math"

	"github.com/sartorproj/goarima/stats"
)

// significance is the p-value threshold for every test verdict
const significance = 0.05

// StationarityResult reports an Augmented Dickey-Fuller test plus the
// complementary KPSS test
type StationarityResult struct {
	Statistic      float64            `json:"adf_statistic"`
	PValue         float64            `json:"p_value"`
	Lags           int                `json:"lags_used"`
	NObs           int                `json:"observations"`
	CriticalValues map[string]float64 `json:"critical_values"`
	// IsStationary is the ADF verdict: p <= 0.05 rejects a unit root
	IsStationary bool `json:"is_stationary"`

	KPSS *KPSSResult `json:"kpss,omitempty"`
}

// KPSSResult is the level-stationarity KPSS test; its null is stationarity
type KPSSResult struct {
	Statistic    float64 `json:"statistic"`
	PValue       float64 `json:"p_value"`
	IsStationary bool    `json:"is_stationary"`
}

// Correlogram holds the autocorrelations of the differenced training set
type Correlogram struct {
	// ACF and PACF are indexed by lag, starting at lag 0
	ACF  []float64 `json:"acf"`
	PACF []float64 `json:"pacf"`
	// ConfBound is the 95% band half-width, 1.96/sqrt(n)
	ConfBound float64 `json:"conf_bound"`
	MaxLag    int     `json:"max_lag"`
}

// CheckStationarity runs the ADF test on values, or on the training set
// when values is nil
func (a *Analyzer) CheckStationarity(values []float64) (*StationarityResult, error) {
	var s *Series
	if values != nil {
		s = &Series{Values: dropNaN(values)}
	} else {
		if a.train == nil {
			return nil, ErrNoTrainData
		}
		s = a.train
	}

	ts := s.toTimeSeries()
	adf := stats.ADF(ts, 0)
	if adf == nil {
		return nil, ErrSeriesTooShort
	}

	result := &StationarityResult{
		Statistic:      adf.Statistic,
		PValue:         adf.PValue,
		Lags:           adf.Lags,
		NObs:           adf.NObs,
		CriticalValues: adf.CriticalVals,
		IsStationary:   adf.PValue <= significance,
	}
	if kpss := stats.KPSS(ts, "c", 0); kpss != nil {
		result.KPSS = &KPSSResult{
			Statistic:    kpss.Statistic,
			PValue:       kpss.PValue,
			IsStationary: kpss.PValue > significance,
		}
	}
	return result, nil
}

// DifferenceSeries returns the first difference of the training set. It is
// one observation shorter than the training set.
func (a *Analyzer) DifferenceSeries() (*Series, error) {
	if a.train == nil {
		return nil, ErrNoTrainData
	}
	return a.train.diff(), nil
}

// Correlogram computes ACF and PACF of the differenced training set up to
// maxLag, defaulting to min(20, n/2-1) when maxLag <= 0
func (a *Analyzer) Correlogram(maxLag int) (*Correlogram, error) {
	diffed, err := a.DifferenceSeries()
	if err != nil {
		return nil, err
	}

	n := diffed.Len()
	limit := n/2 - 1
	if maxLag <= 0 || maxLag > limit {
		maxLag = min(20, limit)
	}
	if maxLag < 1 {
		return nil, ErrTooFewLags
	}

	ts := diffed.toTimeSeries()
	acf := stats.ACF(ts, maxLag)
	if acf == nil {
		return nil, ErrConstantSeries
	}
	pacf := stats.PACF(ts, maxLag)

	return &Correlogram{
		ACF:       acf,
		PACF:      pacf,
		ConfBound: 1.96 / math.Sqrt(float64(n)),
		MaxLag:    maxLag,
	}, nil
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
