package session

import (
	"sync"
	"time"

	"timeseer/internal/analyzer"
)

// Flash levels
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown after a redirect
type Flash struct {
	Level   string
	Message string
}

// Results holds the latest output of each dashboard action
type Results struct {
	FileName string

	Stationarity     *analyzer.StationarityResult
	Differenced      *analyzer.Series
	DiffStationarity *analyzer.StationarityResult
	Correlogram      *analyzer.Correlogram

	Model       *analyzer.ModelSummary
	Diagnostics *analyzer.ResidualDiagnostics
	Forecast    *analyzer.ModelEvaluation

	Auto         *analyzer.AutoSummary
	AutoForecast *analyzer.ModelEvaluation

	Evaluations []analyzer.ModelEvaluation
}

// ResetFrom clears results produced by step and every later step. Steps are
// "load", "select", "split", "manual" and "auto".
func (r *Results) ResetFrom(step string) {
	switch step {
	case "load":
		r.FileName = ""
		fallthrough
	case "select", "split":
		r.Stationarity = nil
		r.Differenced = nil
		r.DiffStationarity = nil
		r.Correlogram = nil
		r.Model = nil
		r.Diagnostics = nil
		r.Forecast = nil
		r.Auto = nil
		r.AutoForecast = nil
		r.Evaluations = nil
	case "manual":
		r.Model = nil
		r.Diagnostics = nil
		r.Forecast = nil
		r.Evaluations = nil
	case "auto":
		r.Auto = nil
		r.AutoForecast = nil
		r.Evaluations = nil
	}
}

// Session is one visitor's workspace. Callers hold Lock while using the
// analyzer or results.
type Session struct {
	ID       string
	Analyzer *analyzer.Analyzer
	Results  Results

	mu       sync.Mutex
	flashes  []Flash
	created  time.Time
	lastSeen time.Time
}

// Lock serialises work on the session
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session
func (s *Session) Unlock() { s.mu.Unlock() }

// AddFlash queues a message for the next page view. Callers hold Lock.
func (s *Session) AddFlash(level, message string) {
	s.flashes = append(s.flashes, Flash{Level: level, Message: message})
}

// PopFlashes returns and clears queued messages. Callers hold Lock.
func (s *Session) PopFlashes() []Flash {
	out := s.flashes
	s.flashes = nil
	return out
}

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time { return s.created }
