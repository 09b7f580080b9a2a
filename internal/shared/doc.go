// Package shared holds helpers used by more than one package that belong to
// no single domain. Today that is only the testutil subpackage, which
// provides a capturing slog handler and time-series fixtures for tests.
package shared
