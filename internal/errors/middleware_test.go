package errors

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))

	body := `{"data":[{"date":"2020-01-01","value":1}],"token":"hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/forecast", strings.NewReader(body))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "request failed")
	assert.Contains(t, out, "status=400")
	assert.Contains(t, out, "[1 items]")
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "hunter2")

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, buf.String())
}

func TestErrorMiddleware_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSanitizeRequestBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: "date,value", want: "date,value"},
		{name: "redacts secrets", body: `{"password":"p"}`, want: `{"password":"[REDACTED]"}`},
		{name: "collapses arrays", body: `{"data":[1,2,3]}`, want: `{"data":"[3 items]"}`},
		{name: "long body truncated", body: strings.Repeat("x", 600), want: strings.Repeat("x", 500) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeRequestBody([]byte(tt.body)))
		})
	}
}
