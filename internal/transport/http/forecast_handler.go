package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "timeseer/internal/errors"
	"timeseer/internal/infrastructure"
	"timeseer/internal/services"
	api "timeseer/pkg/contracts/api/v1"
)

// ForecastHandler serves the forecasting REST API
type ForecastHandler struct {
	service      ForecastServiceInterface
	errorHandler *apierrors.ErrorHandler
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(service ForecastServiceInterface, errorHandler *apierrors.ErrorHandler, maxBodyBytes int64, logger *slog.Logger) *ForecastHandler {
	return &ForecastHandler{
		service:      service,
		errorHandler: errorHandler,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With(slog.String("handler", "forecast")),
	}
}

// Forecast handles POST /api/forecast. Every failure is a flat {error}
// body: 400 for input problems, 500 for anything else.
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil {
		apierrors.WriteSimpleError(w, r, http.StatusBadRequest, api.MsgMissingData)
		return
	}
	if int64(len(body)) > h.maxBodyBytes {
		apierrors.WriteSimpleError(w, r, http.StatusRequestEntityTooLarge, "Request body exceeds maximum allowed size")
		return
	}

	req, err := services.DecodeForecastRequest(body)
	if err != nil {
		h.writeForecastError(w, r, err)
		return
	}

	resp, err := h.service.Forecast(r.Context(), req)
	if err != nil {
		h.writeForecastError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

func (h *ForecastHandler) writeForecastError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		apierrors.WriteSimpleError(w, r, http.StatusBadRequest, verr.Message)
		return
	}

	infrastructure.WithError(h.logger, err).ErrorContext(r.Context(), "forecast request failed",
		slog.String("path", r.URL.Path))
	apierrors.WriteSimpleError(w, r, http.StatusInternalServerError, err.Error())
}

// Analyze handles POST /api/analyze. A failed analysis is answered 422
// with the error document.
func (h *ForecastHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := services.DecodeAnalyzeRequest(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result := h.service.Analyze(r.Context(), req)
	if result.Error != "" {
		render.Status(r, http.StatusUnprocessableEntity)
	}
	render.JSON(w, r, result)
}
