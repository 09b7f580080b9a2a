package testutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FixtureStart is the first month of every generated fixture series
var FixtureStart = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// MonthlyDates returns n month-start dates beginning at start
func MonthlyDates(start time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, i, 0)
	}
	return dates
}

// TrendSeries returns a deterministic trending series with a yearly cycle.
// The wiggle term keeps the series from being perfectly smooth so model fits
// have non-zero residual variance.
func TrendSeries(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		seasonal := 10 * math.Sin(2*math.Pi*float64(i)/12)
		wiggle := float64((i*7)%5-2) * 0.75
		values[i] = 100 + 2*float64(i) + seasonal + wiggle
	}
	return values
}

// LongCSV renders a long-format CSV with a date column and one value column
func LongCSV(column string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "date,%s\n", column)
	dates := MonthlyDates(FixtureStart, n)
	for i, v := range TrendSeries(n) {
		fmt.Fprintf(&b, "%s,%s\n", dates[i].Format("2006-01-02"), strconv.FormatFloat(v, 'f', 2, 64))
	}
	return b.String()
}

// WideCSV renders a wide-format CSV: one row per region, one column per date.
// Each region's series is TrendSeries scaled by its position.
func WideCSV(regions []string, n int) string {
	var b strings.Builder
	b.WriteString("RegionID,RegionName")
	for _, d := range MonthlyDates(FixtureStart, n) {
		b.WriteString("," + d.Format("2006-01-02"))
	}
	b.WriteString("\n")

	base := TrendSeries(n)
	for r, region := range regions {
		fmt.Fprintf(&b, "%d,%q", r+1, region)
		for _, v := range base {
			b.WriteString("," + strconv.FormatFloat(v*float64(r+1), 'f', 2, 64))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Records returns n {date, value} JSON-style records over TrendSeries
func Records(n int) []map[string]any {
	dates := MonthlyDates(FixtureStart, n)
	values := TrendSeries(n)
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = map[string]any{
			"date":  dates[i].Format("2006-01-02"),
			"value": values[i],
		}
	}
	return records
}
