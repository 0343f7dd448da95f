package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ------------------------------
// Shared Errors
// ------------------------------

// ErrNotFound is returned when the requested note does not exist.
var ErrNotFound = errors.New("not found")

// ValidateNoteID rejects ids that can never exist on the server, including the
// unsaved-note placeholder.
func ValidateNoteID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid note id %d", id)
	}
	return nil
}

// ValidateToken rejects an empty anti-forgery token before a mutation is sent.
func ValidateToken(token string) error {
	if token == "" {
		return errors.New("missing session token")
	}
	return nil
}
