package analyzer

import (
	"strings"

	"timeseer/internal/config"
)

// Options tune the analyzer's defaults
type Options struct {
	// AutoMaxP, AutoMaxD and AutoMaxQ bound the auto ARIMA search
	AutoMaxP int
	AutoMaxD int
	AutoMaxQ int
	// Criterion ranks auto ARIMA candidates: "aic" or "bic"
	Criterion string
	// MaxFillGap bounds forward-filled runs when selecting a column; 0 means no limit
	MaxFillGap int
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		AutoMaxP:  5,
		AutoMaxD:  2,
		AutoMaxQ:  5,
		Criterion: "aic",
	}
}

// OptionsFrom reads the auto ARIMA limits from configuration
func OptionsFrom(cfg config.ForecastConfig) Options {
	opts := DefaultOptions()
	if cfg.AutoMaxP > 0 {
		opts.AutoMaxP = cfg.AutoMaxP
	}
	if cfg.AutoMaxD > 0 {
		opts.AutoMaxD = cfg.AutoMaxD
	}
	if cfg.AutoMaxQ > 0 {
		opts.AutoMaxQ = cfg.AutoMaxQ
	}
	if c := strings.ToLower(cfg.Criterion); c == "aic" || c == "bic" {
		opts.Criterion = c
	}
	return opts
}
