package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"timeseer/internal/analyzer"
	"timeseer/internal/dataprocessing"
	apierrors "timeseer/internal/errors"
	"timeseer/internal/evaluation"
	"timeseer/internal/infrastructure"
	"timeseer/internal/middleware"
	api "timeseer/pkg/contracts/api/v1"
)

// StructValidator checks validate tags on request structs
type StructValidator interface {
	ValidateStruct(s interface{}) error
}

// ForecastService runs one-shot forecasts for the REST API. Every call
// works on a fresh analyzer, so the service is safe for concurrent use.
type ForecastService struct {
	opts      analyzer.Options
	validator StructValidator
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewForecastService creates a forecast service. metrics may be nil.
func NewForecastService(opts analyzer.Options, validator StructValidator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ForecastService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastService{
		opts:      opts,
		validator: validator,
		metrics:   metrics,
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    infrastructure.WithComponent(logger, "forecast_service"),
	}
}

// DecodeForecastRequest reads a forecast body over the defaults. A missing
// or non-object body, or one without a data key, is a validation error.
func DecodeForecastRequest(body []byte) (api.ForecastRequest, error) {
	req := api.NewForecastRequest()

	var fields map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &fields) != nil || len(fields) == 0 {
		return req, invalid(api.MsgMissingData)
	}
	if _, ok := fields["data"]; !ok {
		return req, invalid(api.MsgMissingData)
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("decode forecast request: %w", err)
	}
	return req, nil
}

// DecodeAnalyzeRequest reads a batch analysis document over the defaults
func DecodeAnalyzeRequest(r io.Reader) (api.AnalyzeRequest, error) {
	req := api.NewAnalyzeRequest()
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode analysis request: %w", err)
	}
	return req, nil
}

// Forecast validates req, fits the requested model on the training window
// and forecasts req.ForecastSteps month starts past the last input date
func (s *ForecastService) Forecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error) {
	cfg := req.Config
	ctx, span := s.tracer.Start(ctx, "forecast.run",
		trace.WithAttributes(
			attribute.String("model.type", cfg.ModelType),
			attribute.Int("forecast.steps", req.ForecastSteps),
			attribute.Int("data.points", len(req.Data)),
		),
	)
	defer span.End()

	if err := s.validate(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	frame, err := forecastFrame(req.Data, req.ColumnName)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	a := analyzer.New(s.opts, s.logger)
	if err := a.LoadFrame(frame); err != nil {
		return nil, err
	}
	if err := a.SelectColumn(req.ColumnName); err != nil {
		return nil, err
	}
	if err := a.SplitData(cfg.TrainSize); err != nil {
		return nil, err
	}

	resp := &api.ForecastResponse{
		Config: api.ForecastResponseConfig{
			ModelType:      cfg.ModelType,
			TrainSize:      cfg.TrainSize,
			Seasonal:       cfg.Seasonal,
			SeasonalPeriod: cfg.SeasonalPeriod,
		},
	}

	start := time.Now()
	fc, err := s.fitAndForecast(a, req, resp)
	infrastructure.RecordForecastRun(ctx, s.metrics, cfg.ModelType, time.Since(start), fc.Len(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forecast failed")
		s.logger.WarnContext(ctx, "forecast failed",
			slog.String("model_type", cfg.ModelType),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	resp.Forecast = fc.Values
	resp.Metrics = map[string]float64{}
	if scores, ok := evaluation.Overlap(a.Test().Values, fc.Values); ok {
		resp.Metrics["rmse"] = scores.RMSE
		resp.Metrics["mae"] = scores.MAE
		resp.Metrics["r2"] = scores.R2
		resp.Metrics["accuracy"] = scores.Accuracy
	}

	last := frame.Index[len(frame.Index)-1]
	resp.Dates = make([]string, 0, req.ForecastSteps)
	for _, d := range analyzer.MonthStartsAfter(last, req.ForecastSteps) {
		resp.Dates = append(resp.Dates, dataprocessing.FormatDate(d))
	}

	s.logger.InfoContext(ctx, "forecast completed",
		slog.String("model_type", cfg.ModelType),
		slog.Int("points", len(resp.Forecast)),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func (s *ForecastService) fitAndForecast(a *analyzer.Analyzer, req api.ForecastRequest, resp *api.ForecastResponse) (*analyzer.Forecast, error) {
	cfg := req.Config
	if cfg.ModelType == api.ModelTypeManual {
		order := cfg.Order
		resp.Config.Order = &order

		summary, err := a.FitARIMA(analyzer.Order{P: order.P, D: order.D, Q: order.Q})
		if err != nil {
			return nil, err
		}
		resp.ModelInfo = &api.ModelInfo{AIC: summary.AIC, BIC: summary.BIC}
		return a.Forecast(req.ForecastSteps)
	}

	if _, err := a.FitAutoARIMA(cfg.Seasonal, cfg.SeasonalPeriod); err != nil {
		return nil, err
	}
	return a.AutoForecast(req.ForecastSteps)
}

// validate applies the checks in the order clients see them
func (s *ForecastService) validate(req api.ForecastRequest) error {
	if len(req.Data) < api.MinForecastDataPoints {
		return invalid(api.MsgInsufficientData)
	}
	for _, rec := range req.Data {
		_, hasDate := rec["date"]
		_, hasValue := rec["value"]
		if !hasDate || !hasValue {
			return invalid(api.MsgMissingColumns)
		}
	}
	if s.validator != nil {
		if err := s.validator.ValidateStruct(req); err != nil {
			return invalid(middleware.FirstMessage(err))
		}
	}
	return nil
}

// Analyze runs the batch analysis document on a fresh analyzer
func (s *ForecastService) Analyze(ctx context.Context, req api.AnalyzeRequest) api.AnalysisResult {
	ctx, span := s.tracer.Start(ctx, "forecast.analyze",
		trace.WithAttributes(
			attribute.String("model.type", req.Config.ModelType),
			attribute.Int("data.points", len(req.Data)),
		),
	)
	defer span.End()

	start := time.Now()
	result := analyzer.New(s.opts, s.logger).RunAPIAnalysis(req.Data, req.Column, req.Config)

	var err error
	if result.Error != "" {
		err = fmt.Errorf("%s", result.Error)
		span.SetStatus(codes.Error, result.Error)
	}
	infrastructure.RecordForecastRun(ctx, s.metrics, req.Config.ModelType, time.Since(start), len(result.Forecast), err)
	return result
}

// forecastFrame turns {date, value} records into a one-column frame named
// column. Rows keep their input order. A null value is a missing
// observation.
func forecastFrame(records []map[string]any, column string) (*dataprocessing.Frame, error) {
	index := make([]time.Time, len(records))
	values := make([]float64, len(records))

	for i, rec := range records {
		date, ok := rec["date"].(string)
		if !ok {
			return nil, apierrors.NewParsingError("invalid date", fmt.Errorf("row %d: date must be a string, got %v", i, rec["date"]))
		}
		t, err := dataprocessing.ParseDate(date)
		if err != nil {
			return nil, apierrors.NewParsingError("invalid date", fmt.Errorf("row %d: %w", i, err))
		}
		index[i] = t

		v, err := numericValue(rec["value"])
		if err != nil {
			return nil, apierrors.NewParsingError("invalid value", fmt.Errorf("row %d: %w", i, err))
		}
		values[i] = v
	}

	return dataprocessing.NewFrame(index, []string{column}, map[string][]float64{column: values})
}

func numericValue(v any) (float64, error) {
	switch val := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return val, nil
	case json.Number:
		return val.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value %v is not numeric", val)
	}
}
