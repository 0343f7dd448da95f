package client

import (
	"errors"

	errs "github.com/Polystyreeni/NoteOnline/client/internal/errors"
	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

// Re-export shared SDK error so callers compare against a single symbol.
var ErrNotFound = types.ErrNotFound

// ErrClientClosed is returned by calls made after Close.
var ErrClientClosed = errors.New("client closed")

// ErrorDetail returns the server's explanation of a failed call when it sent
// one, otherwise err's own text. It returns "" for a nil error.
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	if d := errs.Detail(err); d != "" {
		return d
	}
	return err.Error()
}

// StatusCode returns the HTTP status of a failed call, or 0 when the call never
// got an answer.
func StatusCode(err error) int { return errs.StatusCode(err) }

// IsRecoverable reports whether a failed call may succeed if tried again.
func IsRecoverable(err error) bool {
	var classified *errs.ClassifiedError
	return errors.As(err, &classified) && classified.Category == errs.Recoverable
}
