package handler

import (
	"errors"
	"net/http"

	"tradedocs/internal/packing"
	"tradedocs/internal/service"
)

// statusForError maps service errors onto HTTP status codes. Anything
// unrecognized is treated as a client error, matching gin's binding failures.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateConfirmation):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotEditable):
		return http.StatusConflict
	case errors.Is(err, packing.ErrNoConversionPath):
		return http.StatusUnprocessableEntity
	case errors.Is(err, packing.ErrMissingPackagingData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
