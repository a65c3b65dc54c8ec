package mappings

import (
	"errors"
	"net/http"
)

// Domain errors for mapping lifecycle operations.
var (
	ErrNotFound             = errors.New("mapping version not found")
	ErrDuplicate            = errors.New("mapping version already exists")
	ErrNoSelection          = errors.New("no mappings selected for confirmation")
	ErrConfirmationRequired = errors.New("mapping set has not been confirmed")
)

// MapHTTPStatus maps mapping domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoSelection) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConfirmationRequired) {
		return http.StatusPreconditionRequired
	}
	return http.StatusInternalServerError
}
