// Package services implements the business logic behind the HTTP handlers.
// Handlers decode requests and render responses; services own validation,
// orchestration of the analyzer and telemetry.
//
// # Available Services
//
//   - ForecastService: POST /api/forecast and POST /api/analyze
//   - DashboardService: session-scoped analyzer operations for the dashboard
//   - HealthService: health, readiness, liveness and version information
//
// # Error Handling
//
// Services return sentinel errors wrapped with fmt.Errorf, or a
// *ValidationError for input the caller must fix. Handlers map them:
//
//	var verr *services.ValidationError
//	if errors.As(err, &verr) {
//	    // 400 with verr.Message
//	}
//
// # Testing
//
// Services take narrow interfaces so handler tests can replace them with
// testify mocks.
package services
