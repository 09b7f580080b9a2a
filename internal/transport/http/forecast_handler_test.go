package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "timeseer/internal/errors"
	"timeseer/internal/services"
	"timeseer/internal/shared/testutil"
	api "timeseer/pkg/contracts/api/v1"
)

type mockForecastService struct {
	mock.Mock
}

func (m *mockForecastService) Forecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*api.ForecastResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockForecastService) Analyze(ctx context.Context, req api.AnalyzeRequest) api.AnalysisResult {
	args := m.Called(ctx, req)
	return args.Get(0).(api.AnalysisResult)
}

func newForecastRouter(t *testing.T, svc ForecastServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewForecastHandler(svc, apierrors.NewErrorHandler(logger, false), 1<<20, logger)

	r := chi.NewRouter()
	r.Post("/api/forecast", h.Forecast)
	r.Post("/api/analyze", h.Analyze)
	return r
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestForecastHandler_Success(t *testing.T) {
	svc := new(mockForecastService)
	resp := &api.ForecastResponse{
		Forecast: []float64{1, 2, 3},
		Dates:    []string{"2024-01-01", "2024-02-01", "2024-03-01"},
		Metrics:  map[string]float64{},
		Config:   api.ForecastResponseConfig{ModelType: api.ModelTypeAuto, TrainSize: 0.8},
	}
	svc.On("Forecast", mock.Anything, mock.MatchedBy(func(req api.ForecastRequest) bool {
		return len(req.Data) == 12 && req.ForecastSteps == 3 && req.Config.ModelType == api.ModelTypeAuto
	})).Return(resp, nil)

	body, err := json.Marshal(map[string]any{"data": testutil.Records(12), "forecast_steps": 3})
	require.NoError(t, err)

	rec := postJSON(t, newForecastRouter(t, svc), "/api/forecast", string(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got api.ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, resp.Forecast, got.Forecast)
	assert.Equal(t, resp.Dates, got.Dates)
	svc.AssertExpectations(t)
}

func TestForecastHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantError:  api.MsgMissingData,
		},
		{
			name:       "no data key",
			body:       `{"forecast_steps": 3}`,
			wantStatus: http.StatusBadRequest,
			wantError:  api.MsgMissingData,
		},
		{
			name:       "validation error from service",
			body:       `{"data": []}`,
			serviceErr: &services.ValidationError{Message: api.MsgInsufficientData},
			wantStatus: http.StatusBadRequest,
			wantError:  api.MsgInsufficientData,
		},
		{
			name:       "model failure",
			body:       `{"data": []}`,
			serviceErr: errors.New("model fit failed"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "model fit failed",
		},
		{
			name:       "malformed data field",
			body:       `{"data": "not a list"}`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockForecastService)
			if tt.serviceErr != nil {
				svc.On("Forecast", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			rec := postJSON(t, newForecastRouter(t, svc), "/api/forecast", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			msg := errorBody(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestForecastHandler_BodyTooLarge(t *testing.T) {
	svc := new(mockForecastService)
	logger, _ := testutil.NewTestLogger(t)
	h := NewForecastHandler(svc, apierrors.NewErrorHandler(logger, false), 16, logger)

	rec := postJSON(t, http.HandlerFunc(h.Forecast), "/api/forecast", `{"data": [1, 2, 3, 4, 5, 6]}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	svc.AssertNotCalled(t, "Forecast", mock.Anything, mock.Anything)
}

func TestForecastHandler_Analyze(t *testing.T) {
	tests := []struct {
		name       string
		result     api.AnalysisResult
		wantStatus int
	}{
		{
			name: "success",
			result: api.AnalysisResult{
				Forecast: []float64{1, 2},
				Dates:    []string{"Step 1", "Step 2"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "analysis error",
			result:     api.FailedAnalysis(errors.New("column not found")),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockForecastService)
			svc.On("Analyze", mock.Anything, mock.MatchedBy(func(req api.AnalyzeRequest) bool {
				return req.Column == "price"
			})).Return(tt.result)

			rec := postJSON(t, newForecastRouter(t, svc), "/api/analyze", `{"data": [], "column": "price"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got api.AnalysisResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.result.Error, got.Error)
			assert.Equal(t, tt.result.Forecast, got.Forecast)
			svc.AssertExpectations(t)
		})
	}
}

func TestForecastHandler_AnalyzeMalformed(t *testing.T) {
	svc := new(mockForecastService)

	rec := postJSON(t, newForecastRouter(t, svc), "/api/analyze", `{"data": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "json")
	svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}
