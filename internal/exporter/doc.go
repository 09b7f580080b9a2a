// Package exporter writes analysis results as CSV or XLSX.
//
// Table is the common tabular shape. FrameTable, ForecastTable and
// ComparisonTable build tables from loaded data, model forecasts and model
// evaluations. EncodeCSV and EncodeXLSX stream a table to any writer (HTTP
// downloads); CSVWriter persists tables below the configured exports
// directory.
//
// Example usage:
//
//	table := exporter.ComparisonTable(evaluations)
//	err := exporter.EncodeXLSX(w, exporter.Sheet{Name: "Comparison", Table: table})
package exporter
