package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for scoring errors.
var (
	ErrEmptyBatch       = errors.New("empty batch")
	ErrUnknownSortField = errors.New("unknown sort field")
)

// MissingFieldError reports required fields absent from the input.
// All missing names are collected and reported together rather than
// failing on the first one.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

// NewMissingField builds a MissingFieldError for the given field names.
func NewMissingField(fields ...string) *MissingFieldError {
	return &MissingFieldError{Fields: fields}
}

// ProcessingError wraps any non-field failure encountered while
// scoring a batch. The caller gets the kind plus the underlying cause;
// the batch produces no output.
type ProcessingError struct {
	Cause error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("error processing data: %v", e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// NewProcessing wraps cause as a ProcessingError.
func NewProcessing(cause error) *ProcessingError {
	return &ProcessingError{Cause: cause}
}
