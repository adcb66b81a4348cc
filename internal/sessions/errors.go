package sessions

import (
	"errors"
	"net/http"
)

// Domain errors for session operations.
var (
	ErrNotFound       = errors.New("session not found")
	ErrDuplicate      = errors.New("session fingerprint already recorded")
	ErrNotRequeueable = errors.New("session is not in a failed state")
)

// MapHTTPStatus maps session domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNotRequeueable) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
