package service

import (
	"errors"
	"fmt"

	"tradedocs/internal/model"
)

var (
	// ErrNotFound covers invoices (and related records) that are absent or
	// belong to another company; the two cases are indistinguishable to the
	// caller on purpose.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateConfirmation rejects a confirm request for an invoice that
	// is already confirmed. Callers must not assume idempotent success, only
	// idempotent non-corruption.
	ErrDuplicateConfirmation = errors.New("invoice already confirmed")

	// ErrInvalidStatus rejects unknown target statuses.
	ErrInvalidStatus = errors.New("invalid invoice status")

	// ErrInvalidContainerType rejects container types outside the capacity table.
	ErrInvalidContainerType = errors.New("invalid container type")

	// ErrNotEditable rejects mutations of invoices past the pending state.
	ErrNotEditable = errors.New("invoice is no longer editable")
)

// DuplicateConfirmationError still reports the existing order so the caller
// can recover the artifacts of the original confirmation.
type DuplicateConfirmationError struct {
	Order *model.Order
}

func (e *DuplicateConfirmationError) Error() string {
	if e.Order != nil {
		return fmt.Sprintf("invoice already confirmed (order %s)", e.Order.OrderNumber)
	}
	return "invoice already confirmed"
}

func (e *DuplicateConfirmationError) Unwrap() error { return ErrDuplicateConfirmation }
