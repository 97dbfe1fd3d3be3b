package analyzer

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, replaces every character outside
// [a-z0-9], whitespace and ". / + # ( ) -" with a space, then collapses
// whitespace runs and trims the result.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	mapped := strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if isAllowed(r) {
			return r
		}
		return ' '
	}, text)

	return strings.Join(strings.Fields(mapped), " ")
}

// Segments splits raw text on separator punctuation and line breaks and
// returns the normalized, non-empty pieces in order.
func Segments(text string) []string {
	parts := strings.FieldsFunc(text, isSeparator)

	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if normalized := Normalize(part); normalized != "" {
			segments = append(segments, normalized)
		}
	}

	return segments
}

// Key returns the comparison key of a skill term: lowercase ASCII letters and digits only.
func Key(term string) string {
	var b strings.Builder
	b.Grow(len(term))

	for _, r := range strings.ToLower(term) {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isAllowed(r rune) bool {
	if isAlnum(r) {
		return true
	}

	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '.', '/', '+', '#', '(', ')', '-':
		return true
	}

	return false
}

func isSeparator(r rune) bool {
	switch r {
	case ',', ';', ':', '|', '\n', '\r':
		return true
	}

	return false
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
