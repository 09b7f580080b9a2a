package dataprocessing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date format used on the wire and in exports
const DateLayout = "2006-01-02"

// dateLayouts are tried in order by ParseDate
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"2006-01",
	"Jan 2006",
	// default rendering of Excel date cells
	"01-02-06",
}

// wideDateHeader matches the date headers of a wide-format file
var wideDateHeader = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate parses s with the first matching accepted layout
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// parseNumber parses a numeric cell; empty or non-numeric cells are NaN
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}
