package validation

import (
	"strings"
	"unicode"
)

const maxNameLength = 120

// StripUnprintable removes non-printable characters, allowing common
// whitespace like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// SanitizeName cleans a user-supplied display name (holding, goal or
// username): control characters are dropped, surrounding whitespace is
// trimmed, internal runs collapse to a single space, and the result is
// capped at a sane length.
func SanitizeName(s string) string {
	s = StripUnprintable(s)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxNameLength {
		s = s[:maxNameLength]
	}
	return s
}
