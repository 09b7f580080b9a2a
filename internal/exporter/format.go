package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatFloat renders f with at most four decimals and no trailing zeros.
// NaN renders empty.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	rounded := math.Round(f*1e4) / 1e4
	if rounded == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// CellText renders a table cell as text for CSV and HTML
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

// cellValue converts a table cell for a spreadsheet; NaN becomes an empty cell
func cellValue(v any) any {
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return nil
	}
	return v
}
