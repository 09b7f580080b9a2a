package exporter

import (
	"timeseer/internal/analyzer"
	"timeseer/internal/dataprocessing"
)

// Table is a header row plus data rows. Cells are strings or float64; a NaN
// cell is written empty.
type Table struct {
	Headers []string
	Rows    [][]any
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.Rows) }

// FrameTable lays a frame out with its index as the first column
func FrameTable(f *dataprocessing.Frame) *Table {
	indexName := f.IndexName
	if indexName == "" {
		indexName = "index"
	}
	t := &Table{Headers: append([]string{indexName}, f.Columns...)}
	for i := 0; i < f.Len(); i++ {
		row := make([]any, 0, len(t.Headers))
		row = append(row, f.RowLabel(i))
		for _, c := range f.Columns {
			row = append(row, f.Values[c][i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ForecastTable aligns each model's forecast with the test set. Rows run for
// the longest forecast; actual values past the test set are left empty.
func ForecastTable(test *analyzer.Series, evals []analyzer.ModelEvaluation) *Table {
	t := &Table{Headers: []string{"date", "actual"}}
	rows := test.Len()
	for _, e := range evals {
		t.Headers = append(t.Headers, e.Name, e.Name+" lower", e.Name+" upper")
		if e.Forecast != nil && e.Forecast.Len() > rows {
			rows = e.Forecast.Len()
		}
	}

	labels := test.Labels()
	for i := 0; i < rows; i++ {
		row := make([]any, 0, len(t.Headers))
		switch {
		case i < len(labels):
			row = append(row, labels[i], test.Values[i])
		default:
			row = append(row, forecastLabel(evals, i), "")
		}
		for _, e := range evals {
			fc := e.Forecast
			if fc == nil || i >= fc.Len() {
				row = append(row, "", "", "")
				continue
			}
			row = append(row, fc.Values[i], fc.Lower[i], fc.Upper[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func forecastLabel(evals []analyzer.ModelEvaluation, i int) string {
	for _, e := range evals {
		if e.Forecast != nil && i < len(e.Forecast.Labels) {
			return e.Forecast.Labels[i]
		}
	}
	return ""
}

// ComparisonTable lists one row of scores per model
func ComparisonTable(evals []analyzer.ModelEvaluation) *Table {
	t := &Table{Headers: []string{"Model", "MSE", "RMSE", "MAE", "R2", "MAPE"}}
	for _, e := range evals {
		s := e.Scores
		t.Rows = append(t.Rows, []any{e.Name, s.MSE, s.RMSE, s.MAE, s.R2, s.MAPE})
	}
	return t
}
