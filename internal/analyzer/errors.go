package analyzer

import "errors"

// Prerequisite errors. The wording is shown to users verbatim.
var (
	ErrNoData        = errors.New("No data loaded. Call load_data() first.")
	ErrNoSeries      = errors.New("No time series data selected. Call select_column() first.")
	ErrNoTrainData   = errors.New("No training data available. Call split_data() first.")
	ErrNoTestData    = errors.New("No testing data available. Call split_data() first.")
	ErrNoModel       = errors.New("No model fitted. Call fit_arima() first.")
	ErrNoAutoModel   = errors.New("No auto ARIMA model fitted. Call fit_auto_arima() first.")
	ErrColumnMissing = errors.New("column not found")
)

var (
	ErrSeriesTooShort  = errors.New("series too short for ADF test")
	ErrNoAutoResult    = errors.New("auto ARIMA found no suitable model")
	ErrInvalidSplit    = errors.New("train size must be between 0 and 1")
	ErrEmptyPartition  = errors.New("split leaves the train or test set empty")
	ErrInvalidPeriod   = errors.New("seasonal period must be at least 2")
	ErrInvalidOrder    = errors.New("ARIMA order terms must be non-negative")
	ErrTooFewLags      = errors.New("series too short for a correlogram")
	ErrConstantSeries  = errors.New("series is constant")
	ErrTooFewResiduals = errors.New("too few residuals for diagnostics")
)

// ColumnNotFoundError reports a column missing from the loaded data
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return "Column '" + e.Column + "' not found in the data."
}

// Is lets errors.Is match ErrColumnMissing
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnMissing
}

// IsPrerequisite reports whether err means an earlier step has not run
func IsPrerequisite(err error) bool {
	for _, sentinel := range []error{ErrNoData, ErrNoSeries, ErrNoTrainData, ErrNoTestData, ErrNoModel, ErrNoAutoModel} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
