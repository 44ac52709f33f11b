package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pulsefeed/backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		ok      bool
	}{
		{"simple text", "hello world", true},
		{"single char", "x", true},
		{"exactly 280", strings.Repeat("a", 280), true},
		{"281 chars", strings.Repeat("a", 281), false},
		{"empty", "", false},
		{"whitespace only", "   \n\t  ", false},
		{"whitespace padding trimmed", "  hi  ", true},
		{"280 after trim", "  " + strings.Repeat("a", 280) + "  ", true},
		{"multibyte runes counted as one", strings.Repeat("é", 280), true},
		{"281 multibyte runes", strings.Repeat("é", 281), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateContent(tc.content)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				apiErr := errors.AsAPIError(err)
				assert.Equal(t, errors.ErrValidation, apiErr.Code)
				assert.Equal(t, "content", apiErr.Field)
			}

			// ok iff 1 <= len(trim(c)) <= 280, counted in runes
			trimmedLen := utf8.RuneCountInString(strings.TrimSpace(tc.content))
			assert.Equal(t, trimmedLen >= 1 && trimmedLen <= MaxContentLength, err == nil)
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		ok       bool
	}{
		{"abc", true},
		{"ab", false},
		{strings.Repeat("a", 20), true},
		{strings.Repeat("a", 21), false},
		{"user_name_42", true},
		{"bad name", false},
		{"bad-name", false},
		{"Ünicode", false},
		{"", false},
	}

	for _, tc := range tests {
		err := ValidateUsername(tc.username)
		assert.Equal(t, tc.ok, err == nil, "ValidateUsername(%q)", tc.username)
	}
}

func TestValidateEmailAndPassword(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("user@nodot"))
	assert.Error(t, ValidateEmail(""))

	assert.NoError(t, ValidatePassword("secret"))
	assert.Error(t, ValidatePassword("five5"[:5]))
	assert.Error(t, ValidatePassword(""))
}

func TestValidateAuthFields(t *testing.T) {
	// Sign-in ignores username entirely
	errs := ValidateAuthFields("user@example.com", "secret1", "", false)
	assert.Empty(t, errs)

	// Sign-up requires a valid username
	errs = ValidateAuthFields("user@example.com", "secret1", "", true)
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "username")

	// All fields bad reports one message per field
	errs = ValidateAuthFields("nope", "x", "a b", true)
	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "username")
}
