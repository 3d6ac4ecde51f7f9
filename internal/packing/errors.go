package packing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConversionEdge rejects edges whose quantity is not strictly
	// positive; such an edge makes conversion meaningless.
	ErrInvalidConversionEdge = errors.New("conversion edge quantity must be greater than zero")

	// ErrNoConversionPath is returned when the graph walk exhausts all edges
	// without reaching the target unit.
	ErrNoConversionPath = errors.New("no conversion path")

	// ErrMissingPackagingData is returned when a product profile lacks the
	// fields required by the requested unit branch. Callers fall back to the
	// line item's flat fields rather than failing hard.
	ErrMissingPackagingData = errors.New("missing packaging data")
)

// NoConversionPathError carries enough context (from, to, category) to log and
// display a failed conversion.
type NoConversionPathError struct {
	From     Unit
	To       Unit
	Category string
}

func (e *NoConversionPathError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("no conversion path from %q to %q in category %q", e.From, e.To, e.Category)
	}
	return fmt.Sprintf("no conversion path from %q to %q", e.From, e.To)
}

func (e *NoConversionPathError) Unwrap() error { return ErrNoConversionPath }

// MissingPackagingDataError names the profile field a calculator branch needed.
type MissingPackagingDataError struct {
	Field string
}

func (e *MissingPackagingDataError) Error() string {
	return fmt.Sprintf("missing packaging data: %s", e.Field)
}

func (e *MissingPackagingDataError) Unwrap() error { return ErrMissingPackagingData }
