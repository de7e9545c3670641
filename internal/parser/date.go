package parser

import (
	"strconv"
	"strings"
	"time"
)

// epochYear is the first year a timestamp may fall in; exports cannot
// predate the messaging platform itself.
const epochYear = 2009

// normalizeTimestamp turns the raw date, time and AM/PM marker of a line into
// an instant in loc. It fails for malformed, impossible or out-of-range
// values instead of letting time.Date roll them over.
//
// Ordering: a first component above 12 must be the day; otherwise a second
// component above 12 must be the day; otherwise the date is read day-first.
// Exports with month-first dates whose components are both 12 or less are
// misread. That ambiguity cannot be resolved from a single line.
func normalizeTimestamp(datePart, timePart, marker string, loc *time.Location, now time.Time) (time.Time, bool) {
	day, month, year, ok := splitDate(datePart)
	if !ok {
		return time.Time{}, false
	}

	hour, minute, second, ok := splitTime(timePart)
	if !ok {
		return time.Time{}, false
	}

	if marker != "" {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		switch normalizeMarker(marker) {
		case "am":
			if hour == 12 {
				hour = 0
			}
		case "pm":
			if hour != 12 {
				hour += 12
			}
		default:
			return time.Time{}, false
		}
	} else if hour > 23 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}

	floor := time.Date(epochYear, time.January, 1, 0, 0, 0, 0, loc)
	if t.Before(floor) || t.After(now) {
		return time.Time{}, false
	}

	return t, true
}

// splitDate resolves day, month and year from a d/m/y or m/d/y string.
func splitDate(datePart string) (day, month, year int, ok bool) {
	parts := strings.FieldsFunc(datePart, func(r rune) bool {
		return r == '/' || r == '.' || r == '-'
	})
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errA != nil || errB != nil || errY != nil || a == 0 || b == 0 || year == 0 {
		return 0, 0, 0, false
	}

	if year < 100 {
		year += 2000
	}

	switch {
	case a > 12 && b <= 12:
		day, month = a, b
	case b > 12 && a <= 12:
		day, month = b, a
	case a > 31 || b > 31:
		return 0, 0, 0, false
	default:
		day, month = a, b
	}

	if month > 12 || day > 31 {
		return 0, 0, 0, false
	}
	return day, month, year, true
}

func splitTime(timePart string) (hour, minute, second int, ok bool) {
	parts := strings.Split(timePart, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}

	values := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, 0, 0, false
		}
		values[i] = v
	}

	hour, minute, second = values[0], values[1], values[2]
	if minute > 59 || second > 59 {
		return 0, 0, 0, false
	}
	return hour, minute, second, true
}

// normalizeMarker folds "PM", "p. m.", "p.m." and similar to "am" or "pm".
func normalizeMarker(marker string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ' ', '\u202f', '\u00a0':
			return -1
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, marker)
}
