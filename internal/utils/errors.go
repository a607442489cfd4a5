package utils

import (
	"errors"
	"fmt"
)

// Error kinds the pipeline can surface. Callers match them with errors.Is.
var (
	// ErrInsufficientData signals that every target value is missing, so
	// interpolation has nothing to anchor on.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrSingularMatrix signals a rank-deficient design matrix or a
	// degenerate weight vector in a regression solve.
	ErrSingularMatrix = errors.New("singular design matrix")

	// ErrMalformedInput signals missing columns or non-coercible values in
	// the input table, detected before any pipeline stage runs.
	ErrMalformedInput = errors.New("malformed input")
)

// AppError wraps an operation, human-facing message, and underlying error.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}
