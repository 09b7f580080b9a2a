package analyzer

import (
	"strconv"
	"time"

	"github.com/sartorproj/goarima/timeseries"

	"timeseer/internal/dataprocessing"
)

// Series is a named run of observations. Dates is nil when the source data
// had no date index; Offset then gives the row position of the first value.
type Series struct {
	Name   string
	Dates  []time.Time
	Values []float64
	Offset int
}

// Len returns the number of observations
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// HasDates reports whether observations carry timestamps
func (s *Series) HasDates() bool {
	return s != nil && s.Dates != nil
}

// Labels formats each observation's date, or its row position when the
// series has no dates
func (s *Series) Labels() []string {
	labels := make([]string, s.Len())
	for i := range labels {
		if s.Dates != nil {
			labels[i] = dataprocessing.FormatDate(s.Dates[i])
		} else {
			labels[i] = strconv.Itoa(s.Offset + i)
		}
	}
	return labels
}

// Last returns the final timestamp; ok is false without dates
func (s *Series) Last() (time.Time, bool) {
	if !s.HasDates() || len(s.Dates) == 0 {
		return time.Time{}, false
	}
	return s.Dates[len(s.Dates)-1], true
}

// slice returns observations [from, to) sharing the backing arrays
func (s *Series) slice(from, to int) *Series {
	out := &Series{Name: s.Name, Values: s.Values[from:to], Offset: s.Offset + from}
	if s.Dates != nil {
		out.Dates = s.Dates[from:to]
	}
	return out
}

// diff returns the first difference; the first observation is dropped
func (s *Series) diff() *Series {
	if s.Len() < 2 {
		return &Series{Name: s.Name, Values: []float64{}, Offset: s.Offset + 1}
	}
	values := make([]float64, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		values[i-1] = s.Values[i] - s.Values[i-1]
	}
	out := &Series{Name: s.Name, Values: values, Offset: s.Offset + 1}
	if s.Dates != nil {
		out.Dates = s.Dates[1:]
	}
	return out
}

// toTimeSeries converts to the goarima representation
func (s *Series) toTimeSeries() *timeseries.Series {
	values := make([]float64, s.Len())
	copy(values, s.Values)
	ts := &timeseries.Series{Values: values, Name: s.Name}
	if s.Dates != nil {
		ts.Timestamps = append([]time.Time(nil), s.Dates...)
	} else {
		ts.Timestamps = make([]time.Time, len(values))
	}
	return ts
}
