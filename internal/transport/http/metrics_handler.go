package http

import (
	"net/http"

	apierrors "timeseer/internal/errors"
)

// MetricsHandler serves the Prometheus scrape endpoint
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler wraps the exporter handler. A nil exporter answers 503,
// which happens when metrics are disabled.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		apierrors.WriteSimpleError(w, r, http.StatusServiceUnavailable, "metrics are disabled")
		return
	}
	h.exporter.ServeHTTP(w, r)
}
