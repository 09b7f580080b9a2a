// Package config provides centralized configuration management for TimeSeer.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//  1. Default values (Default())
//  2. A YAML file: $TIMESEER_CONFIG, ./timeseer.yaml, <exe>/timeseer.yaml, <exe>/config/timeseer.yaml
//  3. Environment variables
//
// # Environment Variables
//
// Variables follow the pattern TIMESEER_<SECTION>_<FIELD>:
//
//	TIMESEER_SERVER_PORT=5000
//	TIMESEER_LOGGING_LEVEL=debug
//	TIMESEER_FORECAST_TRAIN_SIZE=0.85
//	TIMESEER_SESSION_TTL=30m
//	TIMESEER_SECURITY_ALLOWED_ORIGINS=http://localhost:3000,https://example.com
//
// # Path Management
//
// Paths resolves data, export and log locations relative to the executable:
//
//	paths, _ := config.GetPaths()
//	out := paths.GetExportPath("forecast.xlsx")
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
