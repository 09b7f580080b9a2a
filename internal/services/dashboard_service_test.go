package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"timeseer/internal/analyzer"
	"timeseer/internal/config"
	"timeseer/internal/middleware"
	"timeseer/internal/session"
	"timeseer/internal/shared/testutil"
)

func newTestDashboard(t *testing.T) (*DashboardService, *session.Session) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	store := session.NewStore(
		config.SessionConfig{TTL: time.Hour, MaxSessions: 10},
		func() *analyzer.Analyzer { return analyzer.New(analyzer.DefaultOptions(), logger) },
		logger,
	)
	defaults := config.ForecastConfig{TrainSize: 0.8, SeasonalPeriod: 12}
	svc := NewDashboardService(store, defaults, middleware.NewValidator(), nil, logger)

	sess, created, err := svc.Session(context.Background(), "")
	require.NoError(t, err)
	require.True(t, created)
	return svc, sess
}

func lastFlash(t *testing.T, svc *DashboardService, sess *session.Session) session.Flash {
	t.Helper()
	flashes := svc.View(sess, TabUpload).Flashes
	require.NotEmpty(t, flashes)
	return flashes[len(flashes)-1]
}

func TestDashboard_Warnings(t *testing.T) {
	svc, sess := newTestDashboard(t)
	ctx := context.Background()

	assert.Empty(t, svc.View(sess, TabUpload).Warning)
	assert.Equal(t, WarnUpload, svc.View(sess, TabExplore).Warning)
	assert.Equal(t, WarnUpload, svc.View(sess, TabCompare).Warning)

	require.NoError(t, svc.Upload(ctx, sess, "prices.csv", strings.NewReader(testutil.LongCSV("price", 48))))
	assert.Equal(t, WarnSelect, svc.View(sess, TabExplore).Warning)

	require.NoError(t, svc.SelectColumn(ctx, sess, "price"))
	assert.Empty(t, svc.View(sess, TabExplore).Warning)
	assert.Equal(t, WarnSplit, svc.View(sess, TabARIMA).Warning)
	assert.Equal(t, WarnSplit, svc.View(sess, TabAuto).Warning)

	require.NoError(t, svc.Split(ctx, sess, SplitForm{TrainSize: 0.8}))
	assert.Empty(t, svc.View(sess, TabARIMA).Warning)
	assert.Equal(t, WarnModel, svc.View(sess, TabCompare).Warning)

	require.NoError(t, svc.FitARIMA(ctx, sess, OrderForm{P: 1, D: 1, Q: 0}))
	assert.Empty(t, svc.View(sess, TabCompare).Warning)
}

func TestDashboard_Workflow(t *testing.T) {
	svc, sess := newTestDashboard(t)
	ctx := context.Background()

	require.NoError(t, svc.Upload(ctx, sess, "prices.csv", strings.NewReader(testutil.LongCSV("price", 48))))
	flash := lastFlash(t, svc, sess)
	assert.Equal(t, session.FlashSuccess, flash.Level)
	assert.Equal(t, "Data loaded successfully! Shape: (48, 1)", flash.Message)

	view := svc.View(sess, TabUpload)
	assert.Equal(t, "prices.csv", view.FileName)
	assert.Equal(t, 48, view.Rows)
	assert.Equal(t, 5, view.Preview.Len())

	require.NoError(t, svc.SelectColumn(ctx, sess, "price"))
	require.NoError(t, svc.Split(ctx, sess, SplitForm{TrainSize: 0.8}))
	require.NoError(t, svc.Difference(ctx, sess))
	require.NoError(t, svc.Correlogram(ctx, sess))

	view = svc.View(sess, TabExplore)
	assert.Equal(t, 38, view.TrainLen)
	assert.Equal(t, 10, view.TestLen)
	assert.NotNil(t, view.Results.Stationarity)
	assert.NotNil(t, view.Results.DiffStationarity)
	assert.NotNil(t, view.SeriesChart)
	assert.NotNil(t, view.SplitChart)
	assert.NotNil(t, view.DiffChart)
	assert.NotNil(t, view.ACFChart)
	assert.NotNil(t, view.PACFChart)

	require.NoError(t, svc.FitARIMA(ctx, sess, OrderForm{P: 1, D: 1, Q: 1}))
	require.NoError(t, svc.Residuals(ctx, sess))
	require.NoError(t, svc.ForecastManual(ctx, sess, StepsForm{}))

	view = svc.View(sess, TabARIMA)
	require.NotNil(t, view.Results.Forecast)
	assert.Equal(t, 10, view.Results.Forecast.Forecast.Len())
	assert.NotNil(t, view.ResidualChart)
	assert.NotNil(t, view.HistogramChart)
	assert.NotNil(t, view.ForecastChart)

	require.NoError(t, svc.FitAuto(ctx, sess, AutoForm{}))
	require.NoError(t, svc.ForecastAuto(ctx, sess, StepsForm{Steps: 15}))
	view = svc.View(sess, TabAuto)
	require.NotNil(t, view.Results.Auto)
	assert.Equal(t, 15, view.Results.AutoForecast.Forecast.Len())
	assert.NotNil(t, view.AutoForecastChart)

	require.NoError(t, svc.Evaluate(ctx, sess))
	view = svc.View(sess, TabCompare)
	require.Len(t, view.Results.Evaluations, 2)
	assert.Equal(t, analyzer.ManualModelName, view.Results.Evaluations[0].Name)
	assert.NotNil(t, view.MetricsChart)
	assert.NotNil(t, view.OverlayChart)

	var csvOut bytes.Buffer
	name, contentType, err := svc.Export(ctx, sess, ExportComparison, FormatCSV, &csvOut)
	require.NoError(t, err)
	assert.Equal(t, "timeseer_comparison.csv", name)
	assert.Contains(t, contentType, "text/csv")
	assert.Contains(t, csvOut.String(), "Manual ARIMA")
	assert.Contains(t, csvOut.String(), "Auto ARIMA")

	var xlsxOut bytes.Buffer
	_, _, err = svc.Export(ctx, sess, ExportForecasts, FormatXLSX, &xlsxOut)
	require.NoError(t, err)
	book, err := excelize.OpenReader(&xlsxOut)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(ExportForecasts)
	require.NoError(t, err)
	assert.Len(t, rows, 11)
}

func TestDashboard_ActionErrorsBecomeFlashes(t *testing.T) {
	svc, sess := newTestDashboard(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func() error
		message string
	}{
		{
			name:    "select before load",
			run:     func() error { return svc.SelectColumn(ctx, sess, "price") },
			message: analyzer.ErrNoData.Error(),
		},
		{
			name:    "unsupported upload",
			run:     func() error { return svc.Upload(ctx, sess, "prices.txt", strings.NewReader("x")) },
			message: "unsupported file type",
		},
		{
			name:    "fit before split",
			run:     func() error { return svc.FitARIMA(ctx, sess, OrderForm{P: 1, D: 1, Q: 1}) },
			message: analyzer.ErrNoTrainData.Error(),
		},
		{
			name:    "evaluate without models",
			run:     func() error { return svc.Evaluate(ctx, sess) },
			message: ErrNoEvaluations.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, IsUserError(err), "got %v", err)

			flash := lastFlash(t, svc, sess)
			assert.Equal(t, session.FlashError, flash.Level)
			assert.Contains(t, flash.Message, tt.message)
		})
	}
}

func TestDashboard_FormValidation(t *testing.T) {
	svc, sess := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, svc.Upload(ctx, sess, "prices.csv", strings.NewReader(testutil.LongCSV("price", 48))))
	require.NoError(t, svc.SelectColumn(ctx, sess, "price"))

	tests := []struct {
		name string
		run  func() error
	}{
		{"split too small", func() error { return svc.Split(ctx, sess, SplitForm{TrainSize: 0.3}) }},
		{"split too large", func() error { return svc.Split(ctx, sess, SplitForm{TrainSize: 0.99}) }},
		{"p too large", func() error { return svc.FitARIMA(ctx, sess, OrderForm{P: 11, D: 1, Q: 1}) }},
		{"steps too large", func() error { return svc.ForecastManual(ctx, sess, StepsForm{Steps: 101}) }},
		{"period too large", func() error { return svc.FitAuto(ctx, sess, AutoForm{Seasonal: true, Period: 53}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestDashboard_LoadSampleResetsResults(t *testing.T) {
	svc, sess := newTestDashboard(t)
	ctx := context.Background()

	require.NoError(t, svc.Upload(ctx, sess, "prices.csv", strings.NewReader(testutil.LongCSV("price", 48))))
	require.NoError(t, svc.SelectColumn(ctx, sess, "price"))
	require.NoError(t, svc.Split(ctx, sess, SplitForm{TrainSize: 0.8}))

	require.NoError(t, svc.LoadSample(ctx, sess))
	view := svc.View(sess, TabUpload)
	assert.Equal(t, config.SampleDataFile, view.FileName)
	assert.Equal(t, 60, view.Rows)
	assert.Len(t, view.Columns, 10)
	assert.Empty(t, view.Selected)
	assert.Nil(t, view.Results.Stationarity)
}

func TestDashboard_ExportErrors(t *testing.T) {
	svc, sess := newTestDashboard(t)
	ctx := context.Background()

	_, _, err := svc.Export(ctx, sess, ExportComparison, FormatCSV, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNoEvaluations)

	_, _, err = svc.Export(ctx, sess, "secrets", FormatCSV, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownExport)

	require.NoError(t, svc.LoadSample(ctx, sess))
	_, _, err = svc.Export(ctx, sess, ExportData, "pdf", &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownExport)
}

func TestValidTab(t *testing.T) {
	assert.Equal(t, TabAuto, ValidTab(TabAuto))
	assert.Equal(t, TabUpload, ValidTab(""))
	assert.Equal(t, TabUpload, ValidTab("admin"))
}
