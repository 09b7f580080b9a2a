package charts

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"timeseer/internal/analyzer"
)

var dashed = charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Opacity: 0.6})

// Series plots one series against its labels
func Series(title string, s *analyzer.Series) Snippet {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(title)...)
	line.SetGlobalOptions(charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}))
	line.SetXAxis(s.Labels()).AddSeries(s.Name, lineData(s.Values))
	return snippet(title, line)
}

// TrainTest plots the training and test partitions on one axis
func TrainTest(train, test *analyzer.Series) Snippet {
	const title = "Train/Test Split"
	n := train.Len() + test.Len()

	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(title)...)
	line.SetXAxis(append(train.Labels(), test.Labels()...)).
		AddSeries("Training Data", padded(train.Values, 0, n)).
		AddSeries("Testing Data", padded(test.Values, train.Len(), n))
	return snippet(title, line)
}

// Forecast plots the full series with a forecast and its prediction
// interval. The forecast starts where the test set starts.
func Forecast(title string, series, test *analyzer.Series, fc *analyzer.Forecast) Snippet {
	labels := series.Labels()
	start := test.Offset - series.Offset
	// forecast steps beyond the data extend the axis
	for i := len(labels) - start; i < fc.Len(); i++ {
		labels = append(labels, fc.Labels[i])
	}
	n := len(labels)

	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(title)...)
	line.SetXAxis(labels).
		AddSeries("Original Data", padded(series.Values, 0, n)).
		AddSeries("Forecast", padded(fc.Values, start, n)).
		AddSeries("Lower 95%", padded(fc.Lower, start, n), dashed).
		AddSeries("Upper 95%", padded(fc.Upper, start, n), dashed)
	return snippet(title, line)
}

// Residuals plots residuals in observation order with a zero line
func Residuals(residuals []float64) Snippet {
	const title = "Residuals"
	labels := make([]int, len(residuals))
	for i := range labels {
		labels[i] = i + 1
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(title)...)
	line.SetXAxis(labels).AddSeries("Residual", lineData(residuals),
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "zero", YAxis: 0}),
	)
	return snippet(title, line)
}

// Histogram bins values into equal-width bins
func Histogram(title string, values []float64, bins int) Snippet {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title)...)

	labels, counts := histogram(values, bins)
	bar.SetXAxis(labels).AddSeries("Count", barData(counts))
	return snippet(title, bar)
}

// histogram returns bin-centre labels and counts over the range of values
func histogram(values []float64, bins int) ([]string, []float64) {
	if len(values) == 0 || bins < 1 {
		return nil, nil
	}
	sorted := append([]float64(nil), values...)
	floats.Argsort(sorted, make([]int, len(sorted)))

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []string{formatLabel(lo)}, []float64{float64(len(sorted))}
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram needs the last divider strictly above the maximum
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	labels := make([]string, bins)
	for i := range labels {
		labels[i] = formatLabel((dividers[i] + dividers[i+1]) / 2)
	}
	return labels, counts
}
