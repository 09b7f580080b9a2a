// Package http implements the HTTP handlers of the TimeSeer web service.
// Handlers stay thin: they parse requests, call a service and render the
// result.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Analyzer
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// POST /api/forecast answers errors with a flat {"error": "..."} body,
// since clients depend on that shape. Every other JSON endpoint renders RFC
// 7807 problem details through the central ErrorHandler:
//
//	{
//	    "type": "/errors/validation_failed",
//	    "title": "Validation Failed",
//	    "status": 400,
//	    "detail": "train_size must be between 0 and 1",
//	    "instance": "/api/analyze"
//	}
//
// The dashboard is server-rendered. Its actions are form POSTs that
// redirect back to the tab they came from; failures surface as flash
// messages on the next page view.
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of the service
// interfaces.
package http
