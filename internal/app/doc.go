// Package app wires the timeseer web application: configuration, logging,
// OpenTelemetry, the session store, services, and the chi router serving the
// REST API and the dashboard.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, YAML and TIMESEER_* variables
//  2. Initialize logging and observability
//  3. Create the dashboard session store
//  4. Initialize services with their dependencies
//  5. Set up HTTP handlers and middleware
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Lifecycle
//
// Run supervises the HTTP server and the session janitor in one errgroup.
// Cancelling ctx, or a failure in either, shuts the server down within the
// configured shutdown timeout and flushes telemetry. The package never calls
// os.Exit; the main function owns the exit code.
package app
