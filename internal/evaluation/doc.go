// Package evaluation scores forecasts against held-out observations.
//
// Score follows the usual regression definitions and leaves R² unclamped.
// Overlap is the REST variant: it compares only the points both series
// share, clamps R² to [0,1] and adds a range-normalised accuracy.
package evaluation
