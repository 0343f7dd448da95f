package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const (
	MinPasswordLength = 10
	MaxPasswordLength = 64
)

var (
	lowercase = regexp.MustCompile(`[a-z]`)
	uppercase = regexp.MustCompile(`[A-Z]`)
	digit     = regexp.MustCompile(`[0-9]`)
	symbol    = regexp.MustCompile(`\W`)
)

// PasswordStatus is the outcome of IsValidPassword. Message is empty when OK.
type PasswordStatus struct {
	OK      bool
	Message string
}

// passwordRules are checked in order; the first failure is reported.
var passwordRules = []struct {
	ok      func(string) bool
	message string
}{
	{
		ok: func(s string) bool {
			n := utf8.RuneCountInString(s)
			return n >= MinPasswordLength && n <= MaxPasswordLength
		},
		message: fmt.Sprintf("Password must be between %d and %d characters long", MinPasswordLength, MaxPasswordLength),
	},
	{ok: lowercase.MatchString, message: "Password must contain at least one lowercase letter"},
	{ok: uppercase.MatchString, message: "Password must contain at least one uppercase letter"},
	{ok: digit.MatchString, message: "Password must contain at least one number"},
	{ok: symbol.MatchString, message: "Password must contain at least one special character"},
}

// IsValidPassword checks composition rules: length, then lowercase, uppercase,
// digit and symbol.
func IsValidPassword(text string) PasswordStatus {
	for _, rule := range passwordRules {
		if !rule.ok(text) {
			return PasswordStatus{Message: rule.message}
		}
	}
	return PasswordStatus{OK: true}
}
