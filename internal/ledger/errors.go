package ledger

import (
	"errors"
	"net/http"
)

// Domain errors for ledger operations.
var (
	ErrNotFound  = errors.New("execution not found")
	ErrDuplicate = errors.New("execution already recorded")
)

// MapHTTPStatus maps ledger domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
