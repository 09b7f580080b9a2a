package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"timeseer/internal/analyzer"
	"timeseer/internal/config"
	apierrors "timeseer/internal/errors"
	"timeseer/internal/evaluation"
	"timeseer/internal/exporter"
	"timeseer/internal/infrastructure"
	"timeseer/internal/middleware"
	"timeseer/internal/sample"
	"timeseer/internal/session"
	"timeseer/internal/validation"
)

// Dashboard forms. Field names double as form keys.
type (
	// SplitForm divides the selected series
	SplitForm struct {
		TrainSize float64 `json:"train_size" validate:"gte=0.5,lte=0.95"`
	}

	// OrderForm fits a manual ARIMA(p,d,q)
	OrderForm struct {
		P int `json:"p" validate:"min=0,max=10"`
		D int `json:"d" validate:"min=0,max=5"`
		Q int `json:"q" validate:"min=0,max=10"`
	}

	// StepsForm requests a forecast; zero means the test length
	StepsForm struct {
		Steps int `json:"steps" validate:"min=0,max=100"`
	}

	// AutoForm runs the auto ARIMA search
	AutoForm struct {
		Seasonal bool `json:"seasonal"`
		Period   int  `json:"m" validate:"min=2,max=52"`
	}
)

// Export names and formats
const (
	ExportComparison = "comparison"
	ExportForecasts  = "forecasts"
	ExportData       = "data"

	FormatCSV  = validation.FormatCSV
	FormatXLSX = validation.FormatXLSX
)

// residualBins is the residual histogram resolution
const residualBins = 20

// DashboardService runs analyzer operations against a visitor's session.
// Every action locks the session, records its outcome as a flash message
// and returns the error, if any.
type DashboardService struct {
	store     *session.Store
	defaults  config.ForecastConfig
	validator StructValidator
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(store *session.Store, defaults config.ForecastConfig, validator StructValidator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:     store,
		defaults:  defaults,
		validator: validator,
		metrics:   metrics,
		logger:    infrastructure.WithComponent(logger, "dashboard_service"),
	}
}

// Session returns the session for id, creating one when id is unknown
func (s *DashboardService) Session(ctx context.Context, id string) (*session.Session, bool, error) {
	return s.store.GetOrCreate(ctx, id)
}

// Defaults returns the configured analysis defaults
func (s *DashboardService) Defaults() config.ForecastConfig {
	return s.defaults
}

// do runs fn under the session lock and turns its outcome into a flash
func (s *DashboardService) do(ctx context.Context, sess *session.Session, action string, fn func() (string, error)) error {
	sess.Lock()
	defer sess.Unlock()

	msg, err := fn()
	if err != nil {
		sess.AddFlash(session.FlashError, err.Error())
		s.logger.InfoContext(ctx, "dashboard action failed",
			slog.String("session_id", sess.ID),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return err
	}
	if msg != "" {
		sess.AddFlash(session.FlashSuccess, msg)
	}
	s.logger.DebugContext(ctx, "dashboard action completed",
		slog.String("session_id", sess.ID),
		slog.String("action", action),
	)
	return nil
}

func (s *DashboardService) check(form interface{}) error {
	if s.validator == nil {
		return nil
	}
	if err := s.validator.ValidateStruct(form); err != nil {
		return invalid(middleware.FirstMessage(err))
	}
	return nil
}

// Upload loads a CSV or XLSX file, chosen by its extension
func (s *DashboardService) Upload(ctx context.Context, sess *session.Session, filename string, r io.Reader) error {
	return s.do(ctx, sess, "upload", func() (string, error) {
		format, err := validation.DataFormat(filename)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedUpload, filepath.Base(filename))
		}

		a := sess.Analyzer
		if format == FormatXLSX {
			err = a.LoadXLSX(r, "")
		} else {
			err = a.LoadCSV(r)
		}
		if err != nil {
			return "", fmt.Errorf("Error loading data: %w", err)
		}

		s.recordUpload(ctx, format)
		sess.Results.ResetFrom("load")
		sess.Results.FileName = filepath.Base(filename)
		rows, cols := a.Frame().Shape()
		return fmt.Sprintf("Data loaded successfully! Shape: (%d, %d)", rows, cols), nil
	})
}

// LoadSample loads freshly generated sample data
func (s *DashboardService) LoadSample(ctx context.Context, sess *session.Session) error {
	return s.do(ctx, sess, "sample", func() (string, error) {
		if err := sess.Analyzer.LoadFrame(sample.NewRandomGenerator().Frame()); err != nil {
			return "", err
		}
		s.recordUpload(ctx, "sample")
		sess.Results.ResetFrom("load")
		sess.Results.FileName = config.SampleDataFile
		rows, cols := sess.Analyzer.Frame().Shape()
		return fmt.Sprintf("Sample data loaded! Shape: (%d, %d)", rows, cols), nil
	})
}

func (s *DashboardService) recordUpload(ctx context.Context, format string) {
	if s.metrics == nil {
		return
	}
	s.metrics.UploadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// SelectColumn makes column the working series
func (s *DashboardService) SelectColumn(ctx context.Context, sess *session.Session, column string) error {
	return s.do(ctx, sess, "select", func() (string, error) {
		if err := sess.Analyzer.SelectColumn(column); err != nil {
			return "", err
		}
		sess.Results.ResetFrom("select")
		return "Selected: " + column, nil
	})
}

// Split divides the series and tests the training window for stationarity
func (s *DashboardService) Split(ctx context.Context, sess *session.Session, form SplitForm) error {
	return s.do(ctx, sess, "split", func() (string, error) {
		if err := s.check(form); err != nil {
			return "", err
		}
		a := sess.Analyzer
		if err := a.SplitData(form.TrainSize); err != nil {
			return "", err
		}
		sess.Results.ResetFrom("split")

		// the split stands even when the training window is too short to test
		if adf, err := a.CheckStationarity(nil); err == nil {
			sess.Results.Stationarity = adf
		} else {
			sess.AddFlash(session.FlashInfo, "Stationarity test skipped: "+err.Error())
		}
		return fmt.Sprintf("Training data: %d observations, testing data: %d observations",
			a.Train().Len(), a.Test().Len()), nil
	})
}

// Difference differences the training window and tests the result
func (s *DashboardService) Difference(ctx context.Context, sess *session.Session) error {
	return s.do(ctx, sess, "difference", func() (string, error) {
		a := sess.Analyzer
		diffed, err := a.DifferenceSeries()
		if err != nil {
			return "", err
		}
		adf, err := a.CheckStationarity(diffed.Values)
		if err != nil {
			return "", err
		}
		sess.Results.Differenced = diffed
		sess.Results.DiffStationarity = adf
		return "Differencing applied", nil
	})
}

// Correlogram computes ACF and PACF of the differenced training window
func (s *DashboardService) Correlogram(ctx context.Context, sess *session.Session) error {
	return s.do(ctx, sess, "correlogram", func() (string, error) {
		c, err := sess.Analyzer.Correlogram(0)
		if err != nil {
			return "", err
		}
		sess.Results.Correlogram = c
		return "", nil
	})
}

// FitARIMA fits the manual model
func (s *DashboardService) FitARIMA(ctx context.Context, sess *session.Session, form OrderForm) error {
	return s.do(ctx, sess, "fit_arima", func() (string, error) {
		if err := s.check(form); err != nil {
			return "", err
		}
		summary, err := sess.Analyzer.FitARIMA(analyzer.Order{P: form.P, D: form.D, Q: form.Q})
		if err != nil {
			return "", fmt.Errorf("Failed to fit ARIMA model: %w", err)
		}
		sess.Results.ResetFrom("manual")
		sess.Results.Model = summary
		return "ARIMA model fitted successfully!", nil
	})
}

// Residuals runs the residual diagnostics of the manual model
func (s *DashboardService) Residuals(ctx context.Context, sess *session.Session) error {
	return s.do(ctx, sess, "residuals", func() (string, error) {
		diag, err := sess.Analyzer.ResidualDiagnostics()
		if err != nil {
			return "", err
		}
		sess.Results.Diagnostics = diag
		return "", nil
	})
}

// ForecastManual forecasts with the manual model
func (s *DashboardService) ForecastManual(ctx context.Context, sess *session.Session, form StepsForm) error {
	return s.do(ctx, sess, "forecast", func() (string, error) {
		if err := s.check(form); err != nil {
			return "", err
		}
		eval, err := scoreForecast(sess.Analyzer, analyzer.ManualModelName, sess.Analyzer.Forecast, form.Steps)
		if err != nil {
			return "", err
		}
		sess.Results.Forecast = eval
		return "", nil
	})
}

// FitAuto runs the auto ARIMA search
func (s *DashboardService) FitAuto(ctx context.Context, sess *session.Session, form AutoForm) error {
	return s.do(ctx, sess, "fit_auto", func() (string, error) {
		if !form.Seasonal && form.Period == 0 {
			form.Period = s.defaults.SeasonalPeriod
		}
		if err := s.check(form); err != nil {
			return "", err
		}
		summary, err := sess.Analyzer.FitAutoARIMA(form.Seasonal, form.Period)
		if err != nil {
			return "", fmt.Errorf("Failed to run Auto ARIMA: %w", err)
		}
		sess.Results.ResetFrom("auto")
		sess.Results.Auto = summary
		return "Optimal ARIMA order found: " + summary.Label(), nil
	})
}

// ForecastAuto forecasts with the auto model
func (s *DashboardService) ForecastAuto(ctx context.Context, sess *session.Session, form StepsForm) error {
	return s.do(ctx, sess, "auto_forecast", func() (string, error) {
		if err := s.check(form); err != nil {
			return "", err
		}
		eval, err := scoreForecast(sess.Analyzer, analyzer.AutoModelName, sess.Analyzer.AutoForecast, form.Steps)
		if err != nil {
			return "", err
		}
		sess.Results.AutoForecast = eval
		return "", nil
	})
}

// scoreForecast forecasts steps ahead and scores the part that overlaps
// the test window
func scoreForecast(a *analyzer.Analyzer, name string, forecast func(int) (*analyzer.Forecast, error), steps int) (*analyzer.ModelEvaluation, error) {
	fc, err := forecast(steps)
	if err != nil {
		return nil, err
	}
	test := a.Test().Values
	n := min(len(test), fc.Len())
	scores, err := evaluation.Score(test[:n], fc.Values[:n])
	if err != nil {
		return nil, err
	}
	return &analyzer.ModelEvaluation{Name: name, Scores: *scores, Forecast: fc}, nil
}

// Evaluate scores every fitted model over the test window
func (s *DashboardService) Evaluate(ctx context.Context, sess *session.Session) error {
	return s.do(ctx, sess, "evaluate", func() (string, error) {
		a := sess.Analyzer
		if !a.HasManualModel() && !a.HasAutoModel() {
			return "", ErrNoEvaluations
		}
		evals, err := a.EvaluateModels(ctx)
		if err != nil {
			return "", err
		}
		sess.Results.Evaluations = evals
		if len(evals) < 2 {
			sess.AddFlash(session.FlashInfo, "Only one model has been fitted. Fit both models for complete comparison.")
		}
		return "", nil
	})
}

// Export writes the named table in format to w and returns the download
// file name and content type
func (s *DashboardService) Export(ctx context.Context, sess *session.Session, name, format string, w io.Writer) (filename, contentType string, err error) {
	sess.Lock()
	defer sess.Unlock()

	table, err := exportTable(sess, name)
	if err != nil {
		return "", "", err
	}

	filename = "timeseer_" + name + "." + format
	switch format {
	case FormatCSV:
		err = exporter.EncodeCSV(w, table, true)
		contentType = "text/csv; charset=utf-8"
	case FormatXLSX:
		err = exporter.EncodeXLSX(w, exporter.Sheet{Name: name, Table: table})
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "", "", fmt.Errorf("%w format %q", ErrUnknownExport, format)
	}
	if err != nil {
		return "", "", fmt.Errorf("export %s: %w", name, err)
	}

	s.logger.InfoContext(ctx, "export written",
		slog.String("session_id", sess.ID),
		slog.String("export", name),
		slog.String("format", format),
		slog.Int("rows", table.Len()),
	)
	return filename, contentType, nil
}

func exportTable(sess *session.Session, name string) (*exporter.Table, error) {
	a := sess.Analyzer
	switch name {
	case ExportData:
		if a.Frame() == nil {
			return nil, analyzer.ErrNoData
		}
		return exporter.FrameTable(a.Frame()), nil
	case ExportComparison, ExportForecasts:
		evals := sess.Results.Evaluations
		if len(evals) == 0 {
			return nil, ErrNoEvaluations
		}
		if name == ExportComparison {
			return exporter.ComparisonTable(evals), nil
		}
		return exporter.ForecastTable(a.Test(), evals), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownExport, name)
	}
}

// IsUserError reports whether err is the visitor's to fix rather than a
// server fault
func IsUserError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, ErrUnsupportedUpload) ||
		errors.Is(err, ErrNoEvaluations) ||
		errors.Is(err, ErrUnknownExport) ||
		apierrors.TypeOf(err) == apierrors.ErrTypeParsing ||
		analyzer.IsPrerequisite(err)
}
