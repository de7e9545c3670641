package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// isInvisible reports whether r is a zero-width or bidirectional control mark
// that exports sprinkle around names and timestamps.
func isInvisible(r rune) bool {
	switch {
	case r == '\u200b', r == '\u200e', r == '\u200f', r == '\ufeff':
		return true
	case r >= '\u202a' && r <= '\u202e':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	}
	return false
}

// StripInvisible removes zero-width and bidi control marks from s.
func StripInvisible(s string) string {
	if strings.IndexFunc(s, isInvisible) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, s)
}

// Normalize composes s to NFC so that accented letters typed as base letter
// plus combining mark compare equal to their precomposed form.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
