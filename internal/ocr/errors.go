package ocr

import (
	"errors"
	"fmt"
)

// Common recognition errors
var (
	// ErrInvalidImage is returned when the input file is missing or cannot
	// be decoded as an image. This is fatal for the run.
	ErrInvalidImage = errors.New("invalid or undecodable image file")

	// ErrRecognitionFailed is returned when every OCR pass over an image
	// failed. Individual pass failures are tolerated as long as at least
	// one configuration produced text.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrMissingCredentials is returned by the cloud backends when neither
	// GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrUnknownBackend is returned when the configured OCR backend name is
	// not recognized.
	ErrUnknownBackend = errors.New("unknown OCR backend")

	// ErrEmptyText is returned when recognition succeeded but produced no
	// readable text at all.
	ErrEmptyText = errors.New("image contains no readable text")
)

// RecognitionError wraps errors with additional context about the OCR failure.
type RecognitionError struct {
	// Op is the operation that failed (e.g., "Recognize", "ConsolidatedText").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *RecognitionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *RecognitionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRecognitionError creates a new RecognitionError.
func NewRecognitionError(op string, err error, details string) *RecognitionError {
	return &RecognitionError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapRecognitionError wraps an error as a RecognitionError if it isn't already one.
func WrapRecognitionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var recErr *RecognitionError
	if errors.As(err, &recErr) {
		return err // Already wrapped
	}

	return NewRecognitionError(op, err, details)
}
