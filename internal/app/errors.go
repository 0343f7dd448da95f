package app

import (
	"errors"

	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

// ValidationError reports a field that failed a local check. No request was sent.
type ValidationError = validate.FieldError

var (
	// ErrNoteLimit is returned by AddNote when the collection is already full.
	ErrNoteLimit = errors.New("note limit reached")

	// ErrStaleResponse is returned when a response arrived after the session
	// or the active-note choice changed; it was not applied.
	ErrStaleResponse = errors.New("response discarded: state changed while the request was in flight")
)
