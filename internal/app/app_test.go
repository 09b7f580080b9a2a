package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeseer/internal/config"
	"timeseer/internal/shared/testutil"
	api "timeseer/pkg/contracts/api/v1"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Paths.ExecutableDir = t.TempDir()
	cfg.Telemetry.EnableTracing = false
	cfg.Security.RateLimit.Enabled = false
	cfg.Session.JanitorSchedule = "@every 1s"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	app, err := New(cfg, logger)
	require.NoError(t, err)
	return app
}

func serve(app *Application, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	app := newTestApp(t, cfg)

	require.NotNil(t, app.Services)
	assert.NotNil(t, app.Services.Forecast)
	assert.NotNil(t, app.Services.Dashboard)
	assert.NotNil(t, app.Services.Health)
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, "127.0.0.1:0", app.Server.Addr)

	for _, dir := range []string{app.Paths.DataDir, app.Paths.ExportsDir, app.Paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	tests := []struct {
		name        string
		method      string
		path        string
		body        []byte
		wantStatus  int
		contentType string
	}{
		{"root redirects to dashboard", http.MethodGet, "/", nil, http.StatusTemporaryRedirect, ""},
		{"health", http.MethodGet, "/api/health", nil, http.StatusOK, "application/json"},
		{"liveness", http.MethodGet, "/api/health/live", nil, http.StatusOK, "application/json"},
		{"readiness", http.MethodGet, "/api/health/ready", nil, http.StatusOK, "application/json"},
		{"version", http.MethodGet, "/api/version", nil, http.StatusOK, "application/json"},
		{"dashboard", http.MethodGet, "/dashboard", nil, http.StatusOK, "text/html"},
		{"dashboard tab", http.MethodGet, "/dashboard?tab=compare", nil, http.StatusOK, "text/html"},
		{"forecast without body", http.MethodPost, "/api/forecast", []byte("{}"), http.StatusBadRequest, "application/json"},
		{"analyze malformed", http.MethodPost, "/api/analyze", []byte("{"), http.StatusBadRequest, "application/json"},
		{"forecast wrong method", http.MethodGet, "/api/forecast", nil, http.StatusMethodNotAllowed, ""},
		{"unknown route", http.MethodGet, "/nope", nil, http.StatusNotFound, ""},
		{"metrics", http.MethodGet, "/metrics", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.contentType != "" {
				assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_Forecast(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	body, err := json.Marshal(map[string]any{
		"data":           testutil.Records(48),
		"forecast_steps": 6,
		"config": map[string]any{
			"model_type": api.ModelTypeManual,
			"order":      map[string]int{"p": 1, "d": 1, "q": 0},
		},
	})
	require.NoError(t, err)

	rec := serve(app, http.MethodPost, "/api/forecast", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp api.ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Forecast, 6)
	assert.Len(t, resp.Dates, 6)
	require.NotNil(t, resp.ModelInfo)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, serve(app, http.MethodGet, "/api/health", nil).Code)
	rec := serve(app, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestApplication_getCORSConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.AllowedOrigins = []string{"https://example.com"}
	app := newTestApp(t, cfg)

	cors := app.getCORSConfig()
	assert.Equal(t, []string{"https://example.com"}, cors.AllowedOrigins)
	assert.Contains(t, cors.AllowedMethods, http.MethodPost)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplication_performStartupHealthCheck(t *testing.T) {
	app := newTestApp(t, testConfig(t))
	assert.NoError(t, app.performStartupHealthCheck(context.Background()))

	app.Paths.ExportsDir = "/nonexistent/timeseer/exports"
	err := app.performStartupHealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Exports directory not writable")
}

func TestApplication_Run(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestApplication_RunInvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.JanitorSchedule = "not a schedule"
	app := newTestApp(t, cfg)

	select {
	case err := <-runAsync(app):
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not fail on an invalid janitor schedule")
	}
}

func runAsync(app *Application) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	return done
}
