package studio

import (
	"errors"
	"net/http"
)

// Domain errors for studio operations.
var (
	ErrSessionNotFound = errors.New("conversation session not found")
	ErrParseRequired   = errors.New("schemas have not been parsed")
)

// MapHTTPStatus maps studio domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrSessionNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrParseRequired) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
