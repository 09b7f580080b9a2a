package services

import "errors"

var (
	// ErrNoEvaluations is returned when a comparison has no fitted model
	ErrNoEvaluations = errors.New("no fitted models to compare")
	// ErrUnsupportedUpload is returned for uploads that are neither CSV nor XLSX
	ErrUnsupportedUpload = errors.New("unsupported file type, upload a .csv or .xlsx file")
	// ErrUnknownExport is returned for an unknown export name or format
	ErrUnknownExport = errors.New("unknown export")
)

// ValidationError is input the caller must correct. Message is shown to
// clients verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(message string) error {
	return &ValidationError{Message: message}
}
