package render

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLayout indicates no coordinate layout exists for the vendor.
	ErrUnknownLayout = errors.New("no layout defined for vendor")

	// ErrTemplateNotFound indicates the template PDF could not be read.
	ErrTemplateNotFound = errors.New("template PDF not found")
)

// RenderError carries the failing operation alongside the underlying cause.
type RenderError struct {
	Op      string
	Err     error
	Details string
}

func (e *RenderError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("render: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapRenderError attaches operation context to an error.
func WrapRenderError(op string, err error, details string) *RenderError {
	return &RenderError{Op: op, Err: err, Details: details}
}
