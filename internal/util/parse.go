package util

import (
	"time"
)

// ParseCursor parses an ISO-8601 pagination cursor. Returns nil for an empty
// string and an error for anything unparseable.
func ParseCursor(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatCursor renders a created_at timestamp as an ISO-8601 cursor value
func FormatCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
