package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	apierrors "timeseer/internal/errors"
)

// ParseCSV reads a CSV with a header row into a Frame. Wide files (one
// column per date) are pivoted to one column per series; long files use
// their first date-like column as the index.
func ParseCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read csv", err)
	}
	return FromRows(rows)
}

// FromRows builds a Frame from a header row followed by data rows
func FromRows(rows [][]string) (*Frame, error) {
	if len(rows) == 0 {
		return nil, apierrors.NewParsingError("empty input", ErrNoRows)
	}

	header := normalizeHeader(rows[0])
	data := rows[1:]
	if len(data) == 0 {
		return nil, apierrors.NewParsingError("header only", ErrNoDataRows)
	}

	var dateCols []int
	for i, h := range header {
		if wideDateHeader.MatchString(h) {
			dateCols = append(dateCols, i)
		}
	}

	if len(dateCols) > 0 {
		return parseWide(header, data, dateCols)
	}
	return parseLong(header, data, "")
}

// normalizeHeader trims names, strips a UTF-8 BOM, names blank headers and
// de-duplicates repeats with a numeric suffix
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		header[i] = h
	}
	return header
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseWide melts date columns into (series, date, value) triples keyed by
// the first non-date column and pivots them to one column per series
func parseWide(header []string, data [][]string, dateCols []int) (*Frame, error) {
	isDate := make(map[int]bool, len(dateCols))
	for _, i := range dateCols {
		isDate[i] = true
	}
	idCol := -1
	for i := range header {
		if !isDate[i] {
			idCol = i
			break
		}
	}

	// pivot sorts the date index
	type dated struct {
		col  int
		when time.Time
	}
	dates := make([]dated, 0, len(dateCols))
	for _, i := range dateCols {
		t, err := time.Parse(DateLayout, header[i])
		if err != nil {
			return nil, apierrors.NewParsingError("invalid date header", err).WithContext("header", header[i])
		}
		dates = append(dates, dated{col: i, when: t})
	}
	sort.SliceStable(dates, func(a, b int) bool { return dates[a].when.Before(dates[b].when) })

	index := make([]time.Time, len(dates))
	for i, d := range dates {
		index[i] = d.when
	}

	values := make(map[string][]float64, len(data))
	columns := make([]string, 0, len(data))
	for r, row := range data {
		name := strconv.Itoa(r)
		if idCol >= 0 {
			name = cell(row, idCol)
		}
		if _, dup := values[name]; dup {
			return nil, apierrors.NewParsingError("cannot pivot wide data", fmt.Errorf("duplicate series name %q", name))
		}

		series := make([]float64, len(dates))
		for i, d := range dates {
			series[i], _ = parseNumber(cell(row, d.col))
		}
		values[name] = series
		columns = append(columns, name)
	}

	// pivot orders series columns by name
	sort.Strings(columns)

	f := &Frame{Index: index, IndexName: "date", Columns: columns, Values: values}
	f.dropColumnsWithNaN()
	return f, nil
}

// parseLong uses preferred (when it names a date column) or the first date
// column as the index. Rows without a date are dropped. Remaining columns
// that hold only numbers become value columns.
func parseLong(header []string, data [][]string, preferred string) (*Frame, error) {
	dateCol := -1
	if preferred != "" {
		for i, h := range header {
			if h == preferred && isDateColumn(data, i) {
				dateCol = i
				break
			}
		}
	}
	if dateCol < 0 {
		for i := range header {
			if isDateColumn(data, i) {
				dateCol = i
				break
			}
		}
	}

	rows := data
	var index []time.Time
	if dateCol >= 0 {
		rows = make([][]string, 0, len(data))
		index = make([]time.Time, 0, len(data))
		for _, row := range data {
			raw := cell(row, dateCol)
			if raw == "" {
				continue
			}
			t, _ := ParseDate(raw)
			index = append(index, t)
			rows = append(rows, row)
		}
	}

	f := &Frame{Index: index, Values: make(map[string][]float64)}
	if dateCol >= 0 {
		f.IndexName = header[dateCol]
	}

	for i, h := range header {
		if i == dateCol {
			continue
		}
		col, numeric := numericColumn(rows, i)
		if !numeric {
			f.Skipped = append(f.Skipped, h)
			continue
		}
		f.Columns = append(f.Columns, h)
		f.Values[h] = col
	}

	return f, nil
}

// isDateColumn reports whether every non-empty cell of column i parses as a
// date and at least one cell is non-empty
func isDateColumn(data [][]string, i int) bool {
	seen := false
	for _, row := range data {
		raw := cell(row, i)
		if raw == "" {
			continue
		}
		if _, err := ParseDate(raw); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// numericColumn parses column i. It is numeric when at least one cell is
// non-empty and every non-empty cell parses as a number.
func numericColumn(rows [][]string, i int) ([]float64, bool) {
	col := make([]float64, len(rows))
	seen := false
	for r, row := range rows {
		raw := cell(row, i)
		if raw == "" {
			col[r] = math.NaN()
			continue
		}
		v, ok := parseNumber(raw)
		if !ok {
			return nil, false
		}
		col[r] = v
		seen = true
	}
	return col, seen
}
