package http

import (
	"context"

	api "timeseer/pkg/contracts/api/v1"
)

// ForecastServiceInterface defines the forecast operations used by ForecastHandler
type ForecastServiceInterface interface {
	Forecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error)
	Analyze(ctx context.Context, req api.AnalyzeRequest) api.AnalysisResult
}
