package charts

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"timeseer/internal/analyzer"
)

// Correlogram renders the ACF and PACF as bar charts with the 95% band
func Correlogram(c *analyzer.Correlogram) (acf, pacf Snippet) {
	return correlationBars("Autocorrelation Function (ACF)", c.ACF, c.ConfBound),
		correlationBars("Partial Autocorrelation Function (PACF)", c.PACF, c.ConfBound)
}

func correlationBars(title string, values []float64, bound float64) Snippet {
	lags := make([]int, len(values))
	for i := range lags {
		lags[i] = i
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title)...)
	bar.SetXAxis(lags).AddSeries("Correlation", barData(values),
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "+95%", YAxis: bound},
			opts.MarkLineNameYAxisItem{Name: "-95%", YAxis: -bound},
		),
	)
	return snippet(title, bar)
}

// Metrics draws RMSE, MAE and R² side by side for each model
func Metrics(evals []analyzer.ModelEvaluation) Snippet {
	const title = "Model Performance Comparison"
	names := make([]string, len(evals))
	rmse := make([]float64, len(evals))
	mae := make([]float64, len(evals))
	r2 := make([]float64, len(evals))
	for i, e := range evals {
		names[i] = e.Name
		rmse[i] = e.Scores.RMSE
		mae[i] = e.Scores.MAE
		r2[i] = e.Scores.R2
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title)...)
	bar.SetXAxis(names).
		AddSeries("RMSE", barData(rmse)).
		AddSeries("MAE", barData(mae)).
		AddSeries("R²", barData(r2))
	return snippet(title, bar)
}

// Overlay plots every model's test-window forecast over the original series
func Overlay(series, test *analyzer.Series, evals []analyzer.ModelEvaluation) Snippet {
	const title = "Forecast Comparison"
	labels := series.Labels()
	n := len(labels)
	start := test.Offset - series.Offset

	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(title)...)
	line.SetXAxis(labels).AddSeries("Original Data", lineData(series.Values))
	for _, e := range evals {
		if e.Forecast == nil {
			continue
		}
		line.AddSeries(e.Name, padded(e.Forecast.Values, start, n))
	}
	return snippet(title, line)
}

func formatLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
