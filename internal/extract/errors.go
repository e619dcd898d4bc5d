package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrNoText indicates the recognizer produced no usable text at all.
	ErrNoText = errors.New("no text recognized from image")
)

// ExtractionError carries the failing operation alongside the underlying
// cause.
type ExtractionError struct {
	Op      string
	Err     error
	Details string
}

func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("extract: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("extract: %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapExtractionError attaches operation context to an error.
func WrapExtractionError(op string, err error, details string) *ExtractionError {
	return &ExtractionError{Op: op, Err: err, Details: details}
}
