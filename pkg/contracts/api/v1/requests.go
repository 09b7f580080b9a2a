// Package api contains the wire contracts of the TimeSeer REST API and the
// batch API mode. Version v1 represents the current stable API version.
package api

// Validation messages returned by POST /api/forecast. Clients match on them.
const (
	MsgMissingData        = "Missing required data field"
	MsgInsufficientData   = "Insufficient data points. At least 10 are required."
	MsgMissingColumns     = "Data must contain 'date' and 'value' columns"
	MsgInvalidTrainSize   = "train_size must be between 0 and 1"
	MsgInvalidSteps       = "forecast_steps must be positive"
	MsgInvalidModelType   = "model_type must be 'auto' or 'manual'"
	MinForecastDataPoints = 10
)

// Model types
const (
	ModelTypeAuto   = "auto"
	ModelTypeManual = "manual"
)

// ValidationMessages maps json field names to the message reported when
// they fail validation
var ValidationMessages = map[string]string{
	"train_size":     MsgInvalidTrainSize,
	"forecast_steps": MsgInvalidSteps,
	"model_type":     MsgInvalidModelType,
}

// Order is an ARIMA (p,d,q) order
type Order struct {
	P int `json:"p" validate:"min=0,max=10"`
	D int `json:"d" validate:"min=0,max=5"`
	Q int `json:"q" validate:"min=0,max=10"`
}

// DefaultOrder is the order used when a request names none
func DefaultOrder() Order {
	return Order{P: 1, D: 1, Q: 1}
}

// ForecastRequest is the body of POST /api/forecast
type ForecastRequest struct {
	Data          []map[string]any `json:"data"`
	ColumnName    string           `json:"column_name"`
	ForecastSteps int              `json:"forecast_steps" validate:"min=1"`
	Config        ForecastConfig   `json:"config"`
}

// ForecastConfig selects and tunes the model of a forecast request
type ForecastConfig struct {
	ModelType      string  `json:"model_type" validate:"oneof=auto manual"`
	TrainSize      float64 `json:"train_size" validate:"gt=0,lt=1"`
	Order          Order   `json:"order"`
	Seasonal       bool    `json:"seasonal"`
	SeasonalPeriod int     `json:"seasonal_period" validate:"min=2,max=366"`
}

// NewForecastRequest returns a request holding every default. Decoding a
// body into it leaves absent fields at their defaults.
func NewForecastRequest() ForecastRequest {
	return ForecastRequest{
		ColumnName:    "value",
		ForecastSteps: 12,
		Config: ForecastConfig{
			ModelType:      ModelTypeAuto,
			TrainSize:      0.8,
			Order:          DefaultOrder(),
			SeasonalPeriod: 12,
		},
	}
}

// AnalyzeRequest is the batch API mode document, also accepted by
// POST /api/analyze. Config keys are camelCase.
type AnalyzeRequest struct {
	Data   []map[string]any `json:"data"`
	Column string           `json:"column"`
	Config AnalysisConfig   `json:"config"`
}

// AnalysisConfig tunes RunAPIAnalysis
type AnalysisConfig struct {
	TrainSize      float64 `json:"trainSize"`
	ModelType      string  `json:"modelType"`
	Seasonal       bool    `json:"seasonal"`
	SeasonalPeriod int     `json:"seasonalPeriod"`
	Order          Order   `json:"order"`
}

// DefaultAnalysisConfig returns the batch mode defaults
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		TrainSize:      0.8,
		ModelType:      ModelTypeAuto,
		SeasonalPeriod: 12,
		Order:          DefaultOrder(),
	}
}

// NewAnalyzeRequest returns a document holding the default config
func NewAnalyzeRequest() AnalyzeRequest {
	return AnalyzeRequest{Column: "value", Config: DefaultAnalysisConfig()}
}
