package validate

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// StrongScore is the lowest score accepted for registration.
const StrongScore = 3

// Strength is a password score from 0 (guessable) to 4 (very strong) with hints.
type Strength struct {
	Score       int
	Warning     string
	Suggestions []string
}

// Scorer rates passwords.
type Scorer interface {
	Score(password string) Strength
}

// ScorerFunc adapts a function to a Scorer.
type ScorerFunc func(password string) Strength

// Score implements Scorer.
func (f ScorerFunc) Score(password string) Strength { return f(password) }

// StrongEnough reports whether s passes the registration policy (score > 2).
func StrongEnough(s Strength) bool { return s.Score >= StrongScore }

// ZxcvbnScorer rates passwords with zxcvbn. UserInputs are penalised when they
// appear in the password, typically the email being registered.
type ZxcvbnScorer struct {
	UserInputs []string
}

var patternWarnings = map[string]string{
	"dictionary": "This is similar to a commonly used password or word",
	"spatial":    "Straight rows or patterns of keys are easy to guess",
	"repeat":     `Repeats like "aaa" or "abcabc" are easy to guess`,
	"sequence":   "Sequences like abc or 6543 are easy to guess",
	"date":       "Dates are often easy to guess",
}

// Score implements Scorer.
func (z ZxcvbnScorer) Score(password string) Strength {
	if password == "" {
		return Strength{Suggestions: []string{"Use a few words, avoid common phrases"}}
	}
	res := zxcvbn.PasswordStrength(password, z.UserInputs)
	s := Strength{Score: res.Score}
	if StrongEnough(s) {
		return s
	}

	seen := map[string]bool{}
	for _, m := range res.MatchSequence {
		if w, ok := patternWarnings[m.Pattern]; ok && s.Warning == "" {
			s.Warning = w
		}
		if !seen[m.Pattern] {
			seen[m.Pattern] = true
			switch m.Pattern {
			case "dictionary":
				s.Suggestions = append(s.Suggestions, "Add another word or two. Uncommon words are better.")
			case "spatial":
				s.Suggestions = append(s.Suggestions, "Use a longer keyboard pattern with more turns")
			case "repeat":
				s.Suggestions = append(s.Suggestions, "Avoid repeated words and characters")
			case "sequence":
				s.Suggestions = append(s.Suggestions, "Avoid sequences")
			case "date":
				s.Suggestions = append(s.Suggestions, "Avoid dates and years that are associated with you")
			}
		}
	}
	if len(s.Suggestions) == 0 {
		s.Suggestions = []string{"Add another word or two. Uncommon words are better."}
	}
	return s
}
