package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"timeseer/internal/charts"
	"timeseer/internal/config"
	apierrors "timeseer/internal/errors"
	"timeseer/internal/exporter"
	"timeseer/internal/infrastructure"
	"timeseer/internal/middleware"
	"timeseer/internal/services"
	"timeseer/internal/session"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"f4":   func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) },
	"cell": exporter.CellText,
	"inc":  func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/dashboard.html"))

const (
	uploadField     = "file"
	multipartMemory = 8 << 20
)

// DashboardHandler serves the session-scoped HTML dashboard. Every action is
// a POST that redirects back to its tab; outcomes surface as flash messages.
type DashboardHandler struct {
	service      *services.DashboardService
	cookie       config.SessionConfig
	base         string
	maxUpload    int64
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

type dashboardPage struct {
	Base      string
	AssetsURL string
	Tabs      []struct{ ID, Title string }
	View      *services.DashboardView
}

// NewDashboardHandler creates a dashboard handler mounted at base
func NewDashboardHandler(service *services.DashboardService, cookie config.SessionConfig, base string, maxUpload int64, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		cookie:       cookie,
		base:         strings.TrimSuffix(base, "/"),
		maxUpload:    maxUpload,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "dashboard")),
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Page)
	r.Get("/export/{name}.{format}", h.Export)

	r.With(middleware.MaxBodySize(h.maxUpload)).Post("/upload", h.action(services.TabUpload, h.upload))
	r.Post("/sample", h.action(services.TabUpload, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		return h.service.LoadSample(ctx, sess)
	}))
	r.Post("/select", h.action(services.TabUpload, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		return h.service.SelectColumn(ctx, sess, r.PostFormValue("column"))
	}))

	r.Post("/split", h.action(services.TabExplore, h.split))
	r.Post("/difference", h.action(services.TabExplore, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		return h.service.Difference(ctx, sess)
	}))
	r.Post("/correlogram", h.action(services.TabExplore, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		return h.service.Correlogram(ctx, sess)
	}))

	r.Post("/fit", h.action(services.TabARIMA, h.fit))
	r.Post("/residuals", h.action(services.TabARIMA, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		return h.service.Residuals(ctx, sess)
	}))
	r.Post("/forecast", h.action(services.TabARIMA, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		form, err := stepsForm(r)
		if err != nil {
			return err
		}
		return h.service.ForecastManual(ctx, sess, form)
	}))

	r.Post("/auto", h.action(services.TabAuto, h.auto))
	r.Post("/auto/forecast", h.action(services.TabAuto, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		form, err := stepsForm(r)
		if err != nil {
			return err
		}
		return h.service.ForecastAuto(ctx, sess, form)
	}))

	r.Post("/evaluate", h.action(services.TabCompare, func(ctx context.Context, r *http.Request, sess *session.Session) error {
		return h.service.Evaluate(ctx, sess)
	}))

	return r
}

// session resolves the visitor's session from the cookie, issuing a new
// one when the cookie is missing or stale
func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	var id string
	if c, err := r.Cookie(h.cookie.CookieName); err == nil {
		id = c.Value
	}

	sess, created, err := h.service.Session(r.Context(), id)
	if err != nil {
		infrastructure.WithError(h.logger, err).WarnContext(r.Context(), "session unavailable")
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable)
		return nil, false
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie.CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(h.cookie.TTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess, true
}

// Page renders the tab named by ?tab=
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	page := dashboardPage{
		Base:      h.base,
		AssetsURL: charts.AssetsURL,
		Tabs:      services.Tabs,
		View:      h.service.View(sess, r.URL.Query().Get("tab")),
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.ExecuteTemplate(&buf, "dashboard", page); err != nil {
		infrastructure.WithError(h.logger, err).ErrorContext(r.Context(), "render dashboard",
			slog.String("tab", page.View.Tab))
		h.errorHandler.HandleError(w, r, apierrors.ErrInternalServer)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

type actionFunc func(ctx context.Context, r *http.Request, sess *session.Session) error

// action runs fn and redirects to tab. Failures are already flashed by the
// service; form errors raised here are flashed on the session directly.
func (h *DashboardHandler) action(tab string, fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.session(w, r)
		if !ok {
			return
		}

		if err := fn(r.Context(), r, sess); err != nil {
			var ferr *formError
			if errors.As(err, &ferr) {
				sess.Lock()
				sess.AddFlash(session.FlashError, ferr.msg)
				sess.Unlock()
			} else if !services.IsUserError(err) {
				h.logger.WarnContext(r.Context(), "dashboard action error",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
			}
		}

		http.Redirect(w, r, h.base+"?tab="+tab, http.StatusSeeOther)
	}
}

func (h *DashboardHandler) upload(ctx context.Context, r *http.Request, sess *session.Session) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return formErrorf("Upload failed: the file must be at most %d MB.", h.maxUpload>>20)
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return formErrorf("Please choose a CSV or XLSX file to upload.")
	}
	defer file.Close()

	return h.service.Upload(ctx, sess, header.Filename, file)
}

func (h *DashboardHandler) split(ctx context.Context, r *http.Request, sess *session.Session) error {
	size, err := formFloat(r, "train_size", h.service.Defaults().TrainSize)
	if err != nil {
		return err
	}
	return h.service.Split(ctx, sess, services.SplitForm{TrainSize: size})
}

func (h *DashboardHandler) fit(ctx context.Context, r *http.Request, sess *session.Session) error {
	var form services.OrderForm
	var err error
	if form.P, err = formInt(r, "p", 1); err != nil {
		return err
	}
	if form.D, err = formInt(r, "d", 1); err != nil {
		return err
	}
	if form.Q, err = formInt(r, "q", 1); err != nil {
		return err
	}
	return h.service.FitARIMA(ctx, sess, form)
}

func (h *DashboardHandler) auto(ctx context.Context, r *http.Request, sess *session.Session) error {
	period, err := formInt(r, "m", h.service.Defaults().SeasonalPeriod)
	if err != nil {
		return err
	}
	return h.service.FitAuto(ctx, sess, services.AutoForm{
		Seasonal: r.PostFormValue("seasonal") != "",
		Period:   period,
	})
}

// Export streams a comparison, forecast or data table as CSV or XLSX
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, contentType, err := h.service.Export(r.Context(), sess, chi.URLParam(r, "name"), chi.URLParam(r, "format"), &buf)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownExport):
			h.errorHandler.HandleError(w, r, apierrors.NotFoundError("export"))
		case services.IsUserError(err):
			h.errorHandler.HandleError(w, r, apierrors.PrerequisiteError(err))
		default:
			h.errorHandler.HandleError(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// formError is a malformed form field, reported to the visitor as a flash
type formError struct{ msg string }

func (e *formError) Error() string { return e.msg }

func formErrorf(format string, args ...any) error {
	return &formError{msg: fmt.Sprintf(format, args...)}
}

func formInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, formErrorf("%s must be a whole number", key)
	}
	return v, nil
}

func formFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, formErrorf("%s must be a number", key)
	}
	return v, nil
}

// stepsForm reads the forecast horizon; blank means the test length
func stepsForm(r *http.Request) (services.StepsForm, error) {
	steps, err := formInt(r, "steps", 0)
	return services.StepsForm{Steps: steps}, err
}
