package parser

import (
	"fmt"
	"regexp"

	"github.com/chatlens/chatlens/internal/textutil"
)

var (
	// dateSeparator is a bare date on its own line.
	dateSeparator = regexp.MustCompile(`^\d{1,2}[./-]\d{1,2}[./-]\d{2,4}$`)
	// systemBracket is a bracketed timestamp with no sender, e.g. "[1/2/24, 10:00 ...]".
	systemBracket = regexp.MustCompile(`^\[\d{1,2}[./-]\d{1,2}[./-]\d{2,4}, \d{1,2}:\d{2}.*\]$`)
	// leadingDate flags a stray timestamp fragment that must not be glued
	// onto the previous message.
	leadingDate = regexp.MustCompile(`^\d{1,2}[./-]\d{1,2}[./-]\d{2,4}`)
)

// SystemFilter recognises platform-generated lines: deletions, membership and
// group changes, encryption banners, missed calls and automated messages.
type SystemFilter struct {
	patterns []*textutil.WordRegexp
}

// NewSystemFilter compiles patterns case-insensitively.
func NewSystemFilter(patterns []string) (*SystemFilter, error) {
	f := &SystemFilter{patterns: make([]*textutil.WordRegexp, 0, len(patterns))}
	for i, expr := range patterns {
		w, err := textutil.CompileWord(expr)
		if err != nil {
			return nil, fmt.Errorf("system pattern %d: %w", i, err)
		}
		f.patterns = append(f.patterns, w)
	}
	return f, nil
}

// IsSystem reports whether text is platform noise.
func (f *SystemFilter) IsSystem(text string) bool {
	for _, p := range f.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
