package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"timeseer/internal/analyzer"
	"timeseer/internal/config"
	apierrors "timeseer/internal/errors"
	"timeseer/internal/infrastructure"
	customMiddleware "timeseer/internal/middleware"
	"timeseer/internal/services"
	"timeseer/internal/session"
	handlers "timeseer/internal/transport/http"
	"timeseer/pkg/contracts"
	api "timeseer/pkg/contracts/api/v1"
)

// DashboardPath is where the dashboard is mounted
const DashboardPath = "/dashboard"

// Application represents the web application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Sessions      *session.Store
	ErrorHandler  *apierrors.ErrorHandler
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Forecast  *services.ForecastService
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication loads the configuration and logger and builds the application
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		infrastructure.InitializeLogger(infrastructure.DefaultConfig())
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New builds an application from an already loaded configuration
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}
	paths := cfg.ResolvedPaths()

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	opts := analyzer.OptionsFrom(a.Config.Forecast)

	a.Sessions = session.NewStore(a.Config.Session,
		func() *analyzer.Analyzer { return analyzer.New(opts, a.Logger) },
		a.Logger,
		session.WithActiveCounter(a.Metrics.ActiveSessions),
	)

	validator := customMiddleware.NewValidator().WithMessages(api.ValidationMessages)

	a.Services = &ServiceContainer{
		Forecast:  services.NewForecastService(opts, validator, a.Metrics, a.Logger),
		Dashboard: services.NewDashboardService(a.Sessions, a.Config.Forecast, validator, a.Metrics, a.Logger),
		Health:    services.NewHealthService(contracts.Version, contracts.BuildTime, a.Paths, a.Sessions, a.Logger),
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Ordering: RequestID, RealIP, OTel, Logger, Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics, a.Logger)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)
	a.setupDashboardRoutes(r)

	// Scrape endpoint stays outside the request timeout
	metricsPath := a.Config.Telemetry.PrometheusPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	r.Handle(metricsPath, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(apierrors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)

		healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		forecastHandler := handlers.NewForecastHandler(a.Services.Forecast, a.ErrorHandler, a.Config.Server.MaxUploadBytes, a.Logger)
		r.Post("/forecast", forecastHandler.Forecast)
		jsonBody := customMiddleware.NewJSONBodyValidator(a.Logger, a.ErrorHandler, a.Config.Server.MaxUploadBytes)
		r.With(jsonBody.Handler).Post("/analyze", forecastHandler.Analyze)
	})
}

// setupDashboardRoutes configures the HTML dashboard
func (a *Application) setupDashboardRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DashboardPath, http.StatusTemporaryRedirect)
	})

	dashboardHandler := handlers.NewDashboardHandler(
		a.Services.Dashboard,
		a.Config.Session,
		DashboardPath,
		a.Config.Server.MaxUploadBytes,
		a.ErrorHandler,
		a.Logger,
	)
	r.Route(DashboardPath, func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.TraceMiddleware("dashboard"))
		r.Mount("/", dashboardHandler.Routes())
	})
}

// getCORSConfig returns the CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}

	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP and runs the session janitor until ctx is cancelled or
// either of them fails, then shuts down gracefully
func (a *Application) Run(ctx context.Context) error {
	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Sessions.Run(gctx)
	})

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", a.Server.Addr),
			slog.String("dashboard", "http://localhost:"+strconv.Itoa(a.Config.Server.Port)+DashboardPath))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Int("sessions_dropped", a.Sessions.Len()))
	return infrastructure.CloseLogFile()
}

// performStartupHealthCheck verifies the data and export directories are writable
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	directories := map[string]string{
		"Data":    a.Paths.DataDir,
		"Exports": a.Paths.ExportsDir,
		"Logs":    a.Paths.LogsDir,
	}

	for name, dir := range directories {
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
			continue
		}
		os.Remove(testFile)
	}

	if !config.FileExists(a.Paths.SampleDataCSV) {
		a.Logger.InfoContext(ctx, "Sample data not generated yet",
			slog.String("path", a.Paths.SampleDataCSV),
			slog.String("hint", "run: timeseer sample"))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed",
		slog.Duration("session_ttl", a.Config.Session.TTL),
		slog.Time("started_at", time.Now()))
	return nil
}
