// Package analyzer holds the stateful ARIMA workflow shared by the dashboard,
// the REST API and the batch CLI.
//
// An Analyzer walks through load, select, split, test, fit and forecast.
// Each step checks that the steps it depends on have run and reports a
// sentinel error otherwise, so callers can show the user what to do next.
// Estimation is delegated to github.com/sartorproj/goarima.
//
// An Analyzer is not safe for concurrent use; the dashboard guards each
// session's analyzer with the session lock.
package analyzer
