// Package error defines domain-specific errors for the reconciliation backend.
package error

import (
	"errors"
	"fmt"
)

// Parsing domain errors.
var (
	// ErrEmptyResult is returned when a well-formed file yields zero entries.
	ErrEmptyResult = errors.New("no entries recognized in file")

	// ErrMalformedFile is returned when a file cannot be read as its declared format.
	ErrMalformedFile = errors.New("file does not match its declared format")

	// ErrUnsupportedSourceKind is returned when the declared source kind has no parser.
	ErrUnsupportedSourceKind = errors.New("unsupported source kind")

	// ErrUnknownIssuer is returned when a PDF statement matches no known issuer layout.
	ErrUnknownIssuer = errors.New("statement issuer not recognized")
)

// ParseErrorCode defines error codes for parsing errors.
// Format: PRS-XXYYYY where XX is category and YYYY is specific error.
type ParseErrorCode string

const (
	// Structural errors (01XXXX)
	ErrCodeMalformedFile         ParseErrorCode = "PRS-010001"
	ErrCodeUnsupportedSourceKind ParseErrorCode = "PRS-010002"
	ErrCodeUnreadablePDF         ParseErrorCode = "PRS-010003"
	ErrCodeUnknownIssuer         ParseErrorCode = "PRS-010004"
	ErrCodeMissingColumns        ParseErrorCode = "PRS-010005"

	// Content errors (02XXXX)
	ErrCodeEmptyResult   ParseErrorCode = "PRS-020001"
	ErrCodeInvalidAmount ParseErrorCode = "PRS-020002"
	ErrCodeInvalidDate   ParseErrorCode = "PRS-020003"
)

// ParseError reports a parsing failure with enough context to locate it:
// the file name, the 1-based line (0 when the failure is file-level) and
// the raw text that triggered it.
type ParseError struct {
	Code    ParseErrorCode
	Message string
	File    string
	Line    int
	Raw     string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Message
	if e.File != "" {
		if e.Line > 0 {
			msg = fmt.Sprintf("%s (%s:%d)", msg, e.File, e.Line)
		} else {
			msg = fmt.Sprintf("%s (%s)", msg, e.File)
		}
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError with the given code and location.
func NewParseError(code ParseErrorCode, message, file string, line int, raw string, err error) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
		File:    file,
		Line:    line,
		Raw:     raw,
		Err:     err,
	}
}

// NewEmptyResultError creates the ParseError for a file that produced no entries.
func NewEmptyResultError(file string) *ParseError {
	return NewParseError(ErrCodeEmptyResult, "no entries recognized", file, 0, "", ErrEmptyResult)
}
