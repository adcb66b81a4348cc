package workflow

import (
	"errors"
	"net/http"
)

// Domain errors for workflow operations.
var (
	ErrNotFound      = errors.New("workflow state not found")
	ErrDuplicate     = errors.New("workflow state already exists")
	ErrInvalidAction = errors.New("action must be approve, edit, or reject")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrNotSendable   = errors.New("session has not been approved or edited")
)

// MapHTTPStatus maps workflow domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidAction) || errors.Is(err, ErrInvalidRating) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotSendable) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
