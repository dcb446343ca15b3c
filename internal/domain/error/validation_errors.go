package error

import "errors"

// Validation configuration errors.
var (
	// ErrChartUnreadable is returned when the chart of accounts file cannot be parsed.
	ErrChartUnreadable = errors.New("chart of accounts unreadable")

	// ErrChartEmpty is returned when the chart file parses but holds no accounts.
	ErrChartEmpty = errors.New("chart of accounts holds no accounts")

	// ErrRuleInvalid is returned when a keyword rule is malformed.
	ErrRuleInvalid = errors.New("keyword rule invalid")
)

// ValidationConfigErrorCode defines error codes for validation setup errors.
// Format: VAL-XXYYYY where XX is category and YYYY is specific error.
type ValidationConfigErrorCode string

const (
	ErrCodeChartUnreadable ValidationConfigErrorCode = "VAL-010001"
	ErrCodeChartEmpty      ValidationConfigErrorCode = "VAL-010002"
	ErrCodeRuleInvalid     ValidationConfigErrorCode = "VAL-010003"
)

// ValidationConfigError reports an unusable chart of accounts or rule set.
// Callers may degrade to running without account validation when tolerated
// by configuration.
type ValidationConfigError struct {
	Code    ValidationConfigErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationConfigError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ValidationConfigError) Unwrap() error {
	return e.Err
}

// NewValidationConfigError creates a new ValidationConfigError.
func NewValidationConfigError(code ValidationConfigErrorCode, message string, err error) *ValidationConfigError {
	return &ValidationConfigError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
