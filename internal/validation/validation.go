package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pulsefeed/backend/internal/errors"
)

// Content limits. Composers may accept up to MaxContentInput raw characters;
// validation trims and then enforces MaxContentLength displayed characters.
const (
	MaxContentLength = 280
	MaxContentInput  = 300

	MinUsernameLength = 3
	MaxUsernameLength = 20

	MinPasswordLength = 6
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateContent checks post content against the fixed constraints.
// The same function backs per-keystroke feedback and submit-time gating;
// submit paths must call it again even when the interactive path already
// approved, since interactive results can be stale.
func ValidateContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.ValidationError("content", "Post cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxContentLength {
		return errors.ValidationError("content", "Post must be 280 characters or less")
	}
	return nil
}

// ValidateUsername checks the username display-label constraints. Uniqueness
// is a backend concern and is not checked here.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength {
		return errors.ValidationError("username", "Username must be at least 3 characters")
	}
	if n > MaxUsernameLength {
		return errors.ValidationError("username", "Username must be 20 characters or less")
	}
	if !usernameRe.MatchString(username) {
		return errors.ValidationError("username", "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidateEmail checks the email shape for auth forms
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return errors.ValidationError("email", "Please enter a valid email address")
	}
	return nil
}

// ValidatePassword checks the minimum password length for auth forms
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errors.ValidationError("password", "Password must be at least 6 characters")
	}
	return nil
}

// ValidateAuthFields validates a sign-in or sign-up form and returns a
// per-field error map, empty when everything passes. Sign-up additionally
// requires a username; the caller picks the mode, which is why submit-time
// revalidation matters (the mode can toggle after interactive checks ran).
func ValidateAuthFields(email, password, username string, signUp bool) map[string]string {
	fieldErrors := make(map[string]string)

	if err := ValidateEmail(email); err != nil {
		fieldErrors["email"] = errors.AsAPIError(err).Message
	}
	if err := ValidatePassword(password); err != nil {
		fieldErrors["password"] = errors.AsAPIError(err).Message
	}
	if signUp {
		if err := ValidateUsername(username); err != nil {
			fieldErrors["username"] = errors.AsAPIError(err).Message
		}
	}

	return fieldErrors
}
