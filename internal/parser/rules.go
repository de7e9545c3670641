package parser

import (
	"regexp"
)

// Fields are the raw pieces a rule pulls out of a message line.
type Fields struct {
	Date   string
	Time   string
	Marker string // AM/PM marker, empty for 24-hour exports
	Sender string
	Text   string
}

// Rule is one export grammar. Its pattern must define the named groups
// date, time, sender and text; ampm is optional.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Extract applies the rule to line.
func (r Rule) Extract(line string) (Fields, bool) {
	match := r.Pattern.FindStringSubmatch(line)
	if match == nil {
		return Fields{}, false
	}

	var f Fields
	for i, name := range r.Pattern.SubexpNames() {
		switch name {
		case "date":
			f.Date = match[i]
		case "time":
			f.Time = match[i]
		case "ampm":
			f.Marker = match[i]
		case "sender":
			f.Sender = match[i]
		case "text":
			f.Text = match[i]
		}
	}
	return f, true
}

const (
	datePattern   = `(?P<date>\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`
	timePattern   = `(?P<time>\d{1,2}:\d{2}(?::\d{2})?)`
	markerPattern = `(?:[\s\x{202F}\x{00A0}]?(?P<ampm>[AaPp][Mm]))?`
	senderText    = `(?P<sender>[^:]+):\s(?P<text>.*)$`
)

// DefaultRules returns the built-in grammars in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			// [31/12/23, 21:05:10] Ana: hola
			Name:    "bracketed",
			Pattern: regexp.MustCompile(`^\[` + datePattern + `[,\s]+` + timePattern + markerPattern + `\]\s` + senderText),
		},
		{
			// 31/12/23, 21:05 - Ana: hola
			Name:    "dashed",
			Pattern: regexp.MustCompile(`^` + datePattern + `[,\s]+` + timePattern + markerPattern + `\s-\s` + senderText),
		},
		{
			// 31/12/23 21:05 - Ana: hola
			Name:    "dashed-no-comma",
			Pattern: regexp.MustCompile(`^` + datePattern + `\s+` + timePattern + markerPattern + `\s-\s` + senderText),
		},
		{
			// 12/31/23, 9:05 p. m. - Ana: hola
			// [12/31/23, 9:05:10 a. m.] Ana: hola
			Name: "twelve-hour-dotted",
			Pattern: regexp.MustCompile(`^\[?` + datePattern + `[,\s]+` + timePattern +
				`[\s\x{202F}\x{00A0}]?(?P<ampm>[AaPp]\.?[\s\x{202F}\x{00A0}]?[Mm]\.?)\]?\s(?:-\s)?` + senderText),
		},
	}
}
