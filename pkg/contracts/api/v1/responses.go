package api

// ErrorResponse is the {error} body of the forecast endpoint
type ErrorResponse struct {
	Error string `json:"error"`
}

// ModelInfo reports information criteria of a manual model
type ModelInfo struct {
	AIC float64 `json:"aic"`
	BIC float64 `json:"bic"`
}

// ForecastResponseConfig echoes the effective forecast configuration.
// Order is only present for manual models.
type ForecastResponseConfig struct {
	ModelType      string  `json:"model_type"`
	TrainSize      float64 `json:"train_size"`
	Seasonal       bool    `json:"seasonal"`
	SeasonalPeriod int     `json:"seasonal_period"`
	Order          *Order  `json:"order,omitempty"`
}

// ForecastResponse is the 200 body of POST /api/forecast. Metrics is empty
// when the forecast does not overlap the test window.
type ForecastResponse struct {
	Forecast  []float64              `json:"forecast"`
	Dates     []string               `json:"dates"`
	Metrics   map[string]float64     `json:"metrics"`
	Config    ForecastResponseConfig `json:"config"`
	ModelInfo *ModelInfo             `json:"model_info,omitempty"`
}

// AnalysisMetrics are the test-set scores of a batch analysis
type AnalysisMetrics struct {
	RMSE     float64 `json:"rmse"`
	MAE      float64 `json:"mae"`
	R2       float64 `json:"r2"`
	Accuracy float64 `json:"accuracy"`
}

// AnalysisConfigEcho echoes the batch configuration. Order is null unless
// the model type is manual.
type AnalysisConfigEcho struct {
	ModelType      string  `json:"modelType"`
	TrainSize      float64 `json:"trainSize"`
	Order          *Order  `json:"order"`
	Seasonal       bool    `json:"seasonal"`
	SeasonalPeriod int     `json:"seasonalPeriod"`
}

// AnalysisResult is the output of RunAPIAnalysis. On failure Error is set,
// the metrics are zero and the slices are empty.
type AnalysisResult struct {
	Error    string              `json:"error,omitempty"`
	Metrics  AnalysisMetrics     `json:"metrics"`
	Forecast []float64           `json:"forecast"`
	Dates    []string            `json:"dates"`
	Config   *AnalysisConfigEcho `json:"config,omitempty"`
}

// FailedAnalysis builds the error document for err
func FailedAnalysis(err error) AnalysisResult {
	return AnalysisResult{
		Error:    err.Error(),
		Forecast: []float64{},
		Dates:    []string{},
	}
}
