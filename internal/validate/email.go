// Package validate holds the client-side checks run before anything is sent
// to the server: email format, password composition and strength, and note
// field limits.
package validate

import "regexp"

// emailPattern accepts a dotted or quoted local part and either a domain whose
// last label has two or more letters or a bracketed IPv4 literal.
var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// IsValidEmail reports whether text looks like an email address. No DNS lookup is made.
func IsValidEmail(text string) bool {
	return emailPattern.MatchString(text)
}
