package store

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned by mutating calls when no API token is
// configured. Read calls degrade to empty result sets instead.
var ErrMissingToken = errors.New("record store: API token is missing")

// ErrUnknownCategory is returned when an operation targets a category
// that has no tracking table (e.g. Subvention).
var ErrUnknownCategory = errors.New("record store: no tracking table for category")

// APIError is a non-2xx response from the record store.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record store: HTTP %d: %s", e.Status, e.Body)
}
