package transform

import (
	"regexp"
	"time"
)

// DateLayout is the normalized output format.
const DateLayout = "2006-01-02"

// Tried in order. Single-digit months and days are accepted.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"2-Jan-2006",
}

// ISO instants must carry fractional seconds (1 to 6 digits) and a Z suffix.
var isoInstant = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}T\d{1,2}:\d{1,2}:\d{1,2}\.\d{1,6}Z$`)

const isoLayout = "2006-1-2T15:4:5Z"

// NormalizeDate reformats a date to YYYY-MM-DD. A time.Time is formatted
// directly; a string must match one of the supported layouts and describe a
// real calendar date.
func NormalizeDate(v any) (string, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.Format(DateLayout), true
	case *time.Time:
		if x == nil {
			return "", false
		}

		return NormalizeDate(*x)
	case string:
		return normalizeDateString(x)
	default:
		return "", false
	}
}

func normalizeDateString(s string) (string, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(DateLayout), true
		}
	}

	if isoInstant.MatchString(s) {
		t, err := time.Parse(isoLayout, s)
		if err == nil {
			return t.Format(DateLayout), true
		}
	}

	return "", false
}
