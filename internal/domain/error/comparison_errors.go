package error

import "errors"

// Comparison domain errors.
var (
	// ErrComparisonInvariant is returned when the matching stage violates an
	// internal guarantee. It always aborts the run.
	ErrComparisonInvariant = errors.New("comparison invariant violated")

	// ErrComparisonNotFound is returned when a comparison run is not found.
	ErrComparisonNotFound = errors.New("comparison not found")

	// ErrInvalidPeriod is returned when the period window is inverted or absent.
	ErrInvalidPeriod = errors.New("invalid comparison period")

	// ErrTooManyLedgerFiles is returned when more than two ledger files are uploaded.
	ErrTooManyLedgerFiles = errors.New("at most two ledger files are accepted")

	// ErrMissingArtifact is returned when a required upload is absent.
	ErrMissingArtifact = errors.New("required file missing from upload")
)

// ComparisonErrorCode defines error codes for comparison errors.
// Format: CMP-XXYYYY where XX is category and YYYY is specific error.
type ComparisonErrorCode string

const (
	// Input errors (01XXXX)
	ErrCodeInvalidPeriod      ComparisonErrorCode = "CMP-010001"
	ErrCodeTooManyLedgerFiles ComparisonErrorCode = "CMP-010002"
	ErrCodeMissingArtifact    ComparisonErrorCode = "CMP-010003"
	ErrCodeComparisonNotFound ComparisonErrorCode = "CMP-010004"

	// Pipeline errors (02XXXX)
	ErrCodeComparisonInvariant ComparisonErrorCode = "CMP-020001"
)

// ComparisonError represents a comparison error with code and message.
type ComparisonError struct {
	Code    ComparisonErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ComparisonError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ComparisonError) Unwrap() error {
	return e.Err
}

// NewComparisonError creates a new ComparisonError with the given code and message.
func NewComparisonError(code ComparisonErrorCode, message string, err error) *ComparisonError {
	return &ComparisonError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
