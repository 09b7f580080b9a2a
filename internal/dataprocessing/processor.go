package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrAllMissing is returned when a series holds no observations at all
var ErrAllMissing = errors.New("series has no observations")

// FillStatistics reports what Fill changed
type FillStatistics struct {
	// LeadingDropped counts missing values removed from the start of the series
	LeadingDropped int
	// Filled counts interior gaps replaced by the last observation
	Filled int
	// LongestGap is the longest run of consecutive interior gaps
	LongestGap int
}

// ForwardFillProcessor replaces missing observations with the last known value
type ForwardFillProcessor struct {
	// MaxGap bounds a run of consecutive fills; 0 means no limit
	MaxGap int
}

// NewForwardFillProcessor creates a new forward-fill processor
func NewForwardFillProcessor(maxGap int) *ForwardFillProcessor {
	return &ForwardFillProcessor{MaxGap: maxGap}
}

// Fill drops leading NaNs and forward-fills interior ones. index may be nil;
// when set it is trimmed alongside values. The inputs are not modified.
func (p *ForwardFillProcessor) Fill(index []time.Time, values []float64) ([]time.Time, []float64, FillStatistics, error) {
	var stats FillStatistics

	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if start == len(values) {
		return nil, nil, stats, ErrAllMissing
	}
	stats.LeadingDropped = start

	out := make([]float64, len(values)-start)
	copy(out, values[start:])

	run := 0
	for i := range out {
		if !math.IsNaN(out[i]) {
			run = 0
			continue
		}
		run++
		if p.MaxGap > 0 && run > p.MaxGap {
			return nil, nil, stats, fmt.Errorf("gap of more than %d missing values at position %d", p.MaxGap, i+start)
		}
		out[i] = out[i-1]
		stats.Filled++
		if run > stats.LongestGap {
			stats.LongestGap = run
		}
	}

	var outIndex []time.Time
	if index != nil {
		outIndex = make([]time.Time, len(index)-start)
		copy(outIndex, index[start:])
	}
	return outIndex, out, stats, nil
}
