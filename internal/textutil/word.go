// Package textutil provides Unicode-aware text matching helpers shared by the
// parser and the metrics engine.
package textutil

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordClass is the character class of word runes, matching IsWordRune.
const wordClass = `\p{L}\p{N}\p{M}_`

// WordRegexp is a case-insensitive regular expression whose leading and
// trailing \b assertions are evaluated against Unicode letters and digits.
// RE2's own \b only understands ASCII, so "salió" or "día" would never end
// on a boundary.
//
// The trailing boundary is part of the compiled expression so alternatives
// that end inside a word are skipped in favour of ones that do not. The
// leading boundary is checked on each candidate and the search resumes one
// rune later when it fails.
type WordRegexp struct {
	re   *regexp.Regexp
	left bool
	// once is set when expr is anchored at the start of the input.
	once bool
}

// CompileWord compiles expr. A \b at the very start or end of expr becomes a
// Unicode word boundary; a trailing \b$ keeps its end anchor.
func CompileWord(expr string) (*WordRegexp, error) {
	w := &WordRegexp{}

	if strings.HasPrefix(expr, `\b`) {
		w.left = true
		expr = expr[2:]
	}
	right := false
	switch {
	case strings.HasSuffix(expr, `\b$`):
		expr = expr[:len(expr)-3] + "$"
	case strings.HasSuffix(expr, `\b`) && !strings.HasSuffix(expr, `\\b`):
		right = true
		expr = expr[:len(expr)-2]
	}
	w.once = strings.HasPrefix(expr, "^")

	pattern := "(?i)(" + expr + ")"
	if right {
		pattern += `(?:$|[^` + wordClass + `])`
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	w.re = re
	return w, nil
}

// MustCompileWord is like CompileWord but panics on error.
func MustCompileWord(expr string) *WordRegexp {
	w, err := CompileWord(expr)
	if err != nil {
		panic(err)
	}
	return w
}

// WordAlternation builds a \b(?:a|b|c)\b expression matching any of words
// literally. Longer words are tried first.
func WordAlternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(word))
	}
	if len(quoted) == 0 {
		// Matches nothing.
		return `[^\x00-\x{10FFFF}]`
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		return utf8.RuneCountInString(quoted[i]) > utf8.RuneCountInString(quoted[j])
	})
	return `\b(?:` + strings.Join(quoted, "|") + `)\b`
}

// MatchString reports whether s contains a match.
func (w *WordRegexp) MatchString(s string) bool {
	found := false
	w.each(s, func(int, int) bool {
		found = true
		return false
	})
	return found
}

// FindAllString returns every non-overlapping match in s.
func (w *WordRegexp) FindAllString(s string) []string {
	var out []string
	w.each(s, func(start, end int) bool {
		out = append(out, s[start:end])
		return true
	})
	return out
}

// FindString returns the first match in s, or "".
func (w *WordRegexp) FindString(s string) string {
	out := ""
	w.each(s, func(start, end int) bool {
		out = s[start:end]
		return false
	})
	return out
}

// CountString returns the number of matches in s.
func (w *WordRegexp) CountString(s string) int {
	n := 0
	w.each(s, func(int, int) bool {
		n++
		return true
	})
	return n
}

// each calls fn with the bounds of every match in s, left to right, until
// fn returns false. The rune after a match is not consumed, so adjacent
// words separated by one space both match.
func (w *WordRegexp) each(s string, fn func(start, end int) bool) {
	for pos := 0; pos <= len(s); {
		loc := w.re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			return
		}
		start, end := pos+loc[2], pos+loc[3]

		if w.left && start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(s[:start]); IsWordRune(r) {
				if w.once {
					return
				}
				pos = start + runeLen(s[start:])
				continue
			}
		}

		if !fn(start, end) || w.once {
			return
		}
		if end > start {
			pos = end
		} else {
			pos = end + runeLen(s[end:])
		}
	}
}

// runeLen is the byte length of the first rune of s, at least 1.
func runeLen(s string) int {
	_, size := utf8.DecodeRuneInString(s)
	return max(size, 1)
}

// IsWordRune reports whether r is part of a word.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
