package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrVendorNotFound indicates no profile matches the requested key.
	ErrVendorNotFound = errors.New("vendor not found in registry")

	// ErrEmptyRegistry indicates the loaded profile set has no entries.
	ErrEmptyRegistry = errors.New("registry contains no vendors")
)

// RegistryError carries the failing operation alongside the underlying cause.
type RegistryError struct {
	Op      string
	Err     error
	Details string
}

func (e *RegistryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("registry: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("registry: %s: %v", e.Op, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

func (e *RegistryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapRegistryError attaches operation context to an error.
func WrapRegistryError(op string, err error, details string) *RegistryError {
	return &RegistryError{Op: op, Err: err, Details: details}
}
