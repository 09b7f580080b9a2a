package services

import (
	"timeseer/internal/analyzer"
	"timeseer/internal/charts"
	"timeseer/internal/exporter"
	"timeseer/internal/session"
)

// Dashboard tabs
const (
	TabUpload   = "upload"
	TabExplore  = "explore"
	TabARIMA    = "arima"
	TabAuto     = "auto"
	TabCompare  = "compare"
	previewRows = 5
)

// Tabs lists the dashboard tabs in display order
var Tabs = []struct{ ID, Title string }{
	{TabUpload, "Data Upload"},
	{TabExplore, "Data Exploration"},
	{TabARIMA, "ARIMA Modeling"},
	{TabAuto, "Auto ARIMA"},
	{TabCompare, "Model Comparison"},
}

// Prerequisite warnings shown in place of a tab's content
const (
	WarnUpload = "Please upload a CSV file in the Data Upload tab."
	WarnSelect = "Please select a column to analyze in the Data Upload tab."
	WarnSplit  = "Please split the data in the Data Exploration tab."
	WarnModel  = "Please fit at least one ARIMA model in the ARIMA Modeling or Auto ARIMA tab."
)

// DashboardView is everything the dashboard template renders
type DashboardView struct {
	Tab      string
	Warning  string
	Flashes  []session.Flash
	Defaults DashboardDefaults

	FileName string
	Rows     int
	Columns  []string
	Skipped  []string
	Preview  *exporter.Table
	Selected string

	TrainLen int
	TestLen  int

	Results session.Results

	HasManual bool
	HasAuto   bool

	SeriesChart       *charts.Snippet
	SplitChart        *charts.Snippet
	DiffChart         *charts.Snippet
	ACFChart          *charts.Snippet
	PACFChart         *charts.Snippet
	ResidualChart     *charts.Snippet
	HistogramChart    *charts.Snippet
	ForecastChart     *charts.Snippet
	AutoForecastChart *charts.Snippet
	MetricsChart      *charts.Snippet
	OverlayChart      *charts.Snippet
}

// DashboardDefaults pre-fill the dashboard forms
type DashboardDefaults struct {
	TrainSize      float64
	SeasonalPeriod int
	Order          OrderForm
}

// ValidTab returns tab when it names a dashboard tab, else the upload tab
func ValidTab(tab string) string {
	for _, t := range Tabs {
		if t.ID == tab {
			return tab
		}
	}
	return TabUpload
}

// View snapshots the session for rendering tab. Queued flashes are consumed.
func (s *DashboardService) View(sess *session.Session, tab string) *DashboardView {
	sess.Lock()
	defer sess.Unlock()

	tab = ValidTab(tab)
	a := sess.Analyzer
	v := &DashboardView{
		Tab:     tab,
		Flashes: sess.PopFlashes(),
		Defaults: DashboardDefaults{
			TrainSize:      s.defaults.TrainSize,
			SeasonalPeriod: s.defaults.SeasonalPeriod,
			Order:          OrderForm{P: 1, D: 1, Q: 1},
		},
		Results:   sess.Results,
		HasManual: a.HasManualModel(),
		HasAuto:   a.HasAutoModel(),
	}
	v.Warning = prerequisiteWarning(a, tab)

	if f := a.Frame(); f != nil {
		v.FileName = sess.Results.FileName
		v.Rows = f.Len()
		v.Columns = f.Columns
		v.Skipped = f.Skipped
		v.Preview = exporter.FrameTable(f.Head(previewRows))
	}
	if series := a.Series(); series != nil {
		v.Selected = series.Name
	}
	if a.Train() != nil {
		v.TrainLen = a.Train().Len()
		v.TestLen = a.Test().Len()
	}

	if v.Warning == "" {
		buildCharts(v, a)
	}
	return v
}

// prerequisiteWarning names the first missing step a tab depends on
func prerequisiteWarning(a *analyzer.Analyzer, tab string) string {
	if tab == TabUpload {
		return ""
	}
	switch {
	case a.Frame() == nil:
		return WarnUpload
	case a.Series() == nil:
		return WarnSelect
	case tab == TabExplore:
		return ""
	case a.Train() == nil:
		return WarnSplit
	case tab == TabCompare && !a.HasManualModel() && !a.HasAutoModel():
		return WarnModel
	}
	return ""
}

func buildCharts(v *DashboardView, a *analyzer.Analyzer) {
	r := v.Results
	switch v.Tab {
	case TabExplore:
		series := a.Series()
		v.SeriesChart = ptr(charts.Series("Time Series Plot: "+series.Name, series))
		if a.Train() != nil {
			v.SplitChart = ptr(charts.TrainTest(a.Train(), a.Test()))
		}
		if r.Differenced != nil {
			v.DiffChart = ptr(charts.Series("Differenced Time Series", r.Differenced))
		}
		if r.Correlogram != nil {
			acf, pacf := charts.Correlogram(r.Correlogram)
			v.ACFChart, v.PACFChart = &acf, &pacf
		}
	case TabARIMA:
		if r.Diagnostics != nil {
			v.ResidualChart = ptr(charts.Residuals(r.Diagnostics.Residuals))
			v.HistogramChart = ptr(charts.Histogram("Histogram of Residuals", r.Diagnostics.Residuals, residualBins))
		}
		if r.Forecast != nil {
			v.ForecastChart = ptr(charts.Forecast("ARIMA Forecast", a.Series(), a.Test(), r.Forecast.Forecast))
		}
	case TabAuto:
		if r.AutoForecast != nil {
			v.AutoForecastChart = ptr(charts.Forecast("Auto ARIMA Forecast", a.Series(), a.Test(), r.AutoForecast.Forecast))
		}
	case TabCompare:
		if len(r.Evaluations) > 0 {
			v.MetricsChart = ptr(charts.Metrics(r.Evaluations))
			v.OverlayChart = ptr(charts.Overlay(a.Series(), a.Test(), r.Evaluations))
		}
	}
}

func ptr(s charts.Snippet) *charts.Snippet { return &s }
