package config

import "timeseer/pkg/contracts"

// Application constants
const (
	AppName    = "timeseer"
	AppTitle   = "TimeSeer Forecast Kit"
	AppVersion = contracts.Version

	// Analysis defaults
	DefaultTrainSize      = 0.8
	DefaultForecastSteps  = 12
	DefaultSeasonalPeriod = 12
	MinDataPoints         = 10

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultExportsDir = "data/exports"

	SampleDataFile = "sample_housing_prices.csv"

	// API Endpoints
	APIBasePath       = "/api"
	ForecastEndpoint  = "/api/forecast"
	AnalyzeEndpoint   = "/api/analyze"
	HealthEndpoint    = "/api/health"
	DashboardEndpoint = "/dashboard"
)
