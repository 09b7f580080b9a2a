// Package dataprocessing turns uploaded tabular data into a date-indexed Frame.
//
// Three sources are supported: CSV (ParseCSV), a JSON list of records
// (ParseRecords) and Excel workbooks (ParseXLSX). CSV and XLSX rows go through
// the same shape detection:
//
//   - Wide files have one column per date (headers like 2020-01-31) and one row
//     per series. They are melted and pivoted so each series becomes a column,
//     named after the first non-date column. Series with any gap are dropped.
//   - Long files have a date column and one column per series. The first
//     column whose cells all parse as dates becomes the index; other numeric
//     columns become series and non-numeric ones are skipped.
//   - Files without any date column produce a Frame with no index.
//
// ForwardFillProcessor cleans a single selected series before modelling.
package dataprocessing
