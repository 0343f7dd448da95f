package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	t.Parallel()
	valid := []string{
		"user@example.com",
		"first.last@sub.example.org",
		`"quoted local"@example.com`,
		"a@[192.168.1.1]",
	}
	invalid := []string{
		"not-an-email",
		"user@localhost",
		"user@example.c",
		"a..b@example.com",
		"user@@example.com",
		"",
	}
	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidPassword_RuleOrder(t *testing.T) {
	t.Parallel()
	cases := []struct {
		password string
		want     string
	}{
		{"short", passwordRules[0].message},
		{strings.Repeat("Aa1!", 17), passwordRules[0].message},
		{"ALLUPPERCASE123!", passwordRules[1].message},
		{"alllowercase123!", passwordRules[2].message},
		{"NoDigitsHere!!", passwordRules[3].message},
		{"NoSymbols12345", passwordRules[4].message},
		{"Under_score123", passwordRules[4].message},
	}
	for _, tc := range cases {
		got := IsValidPassword(tc.password)
		assert.False(t, got.OK, tc.password)
		assert.Equal(t, tc.want, got.Message, tc.password)
	}

	ok := IsValidPassword("Correct-Horse-42")
	assert.True(t, ok.OK)
	assert.Empty(t, ok.Message)
}

func TestIsValidPassword_CountsRunes(t *testing.T) {
	t.Parallel()
	// 64 runes, well over 64 bytes.
	assert.True(t, IsValidPassword("Aa1!"+strings.Repeat("ä", 60)).OK)
	assert.False(t, IsValidPassword("Aa1!"+strings.Repeat("ä", 61)).OK)
}

func TestZxcvbnScorer(t *testing.T) {
	t.Parallel()
	weak := ZxcvbnScorer{}.Score("password1")
	assert.False(t, StrongEnough(weak))
	assert.NotEmpty(t, weak.Suggestions)

	strong := ZxcvbnScorer{}.Score("vN7#qLp2!xR9wZ$m")
	assert.True(t, StrongEnough(strong), "score %d", strong.Score)

	empty := ZxcvbnScorer{}.Score("")
	assert.Equal(t, 0, empty.Score)
}

func TestStrongEnoughThreshold(t *testing.T) {
	t.Parallel()
	assert.False(t, StrongEnough(Strength{Score: 2}))
	assert.True(t, StrongEnough(Strength{Score: 3}))
}

func TestValidateNote(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateNote("h", "c"))
	require.NoError(t, ValidateNote(strings.Repeat("h", MaxHeaderLength), strings.Repeat("c", MaxContentLength)))

	var fe *FieldError
	err := ValidateNote("", "c")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "header", fe.Field)

	err = ValidateNote(strings.Repeat("h", MaxHeaderLength+1), "c")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "header", fe.Field)

	err = ValidateNote("h", "")
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "content", fe.Field)

	err = ValidateNote("h", strings.Repeat("c", MaxContentLength+1))
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "content", fe.Field)
}
