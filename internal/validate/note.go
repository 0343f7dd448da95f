package validate

import (
	"fmt"
	"unicode/utf8"
)

const (
	MaxHeaderLength  = 64
	MaxContentLength = 5000
)

// FieldError names the input that failed a check.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidateNote checks header and content lengths in characters. Both are required.
func ValidateNote(header, content string) error {
	if header == "" {
		return &FieldError{Field: "header", Message: "Note header must not be empty"}
	}
	if n := utf8.RuneCountInString(header); n > MaxHeaderLength {
		return &FieldError{Field: "header", Message: fmt.Sprintf("Note header is %d characters, the limit is %d", n, MaxHeaderLength)}
	}
	if content == "" {
		return &FieldError{Field: "content", Message: "Note content must not be empty"}
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return &FieldError{Field: "content", Message: fmt.Sprintf("Note content is %d characters, the limit is %d", n, MaxContentLength)}
	}
	return nil
}
