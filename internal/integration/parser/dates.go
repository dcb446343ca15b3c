package parser

import (
	"regexp"
	"strings"
	"time"
)

var (
	dateBRPattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	dateYYPattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	dateISOPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateAnyPattern = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
)

// parseDate reads a calendar date token. The format is validated before
// parsing so arbitrary numeric tokens ("6000", "0000") never pass as dates.
// Accepted layouts: DD/MM/YYYY, DD/MM/YY, YYYY-MM-DD, DD-MM-YYYY, DD-MM-YY.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	switch {
	case dateBRPattern.MatchString(s):
		return parseWithLayout("02/01/2006", s)
	case dateYYPattern.MatchString(s):
		return parseWithLayout("02/01/06", s)
	case dateISOPattern.MatchString(s):
		return parseWithLayout("2006-01-02", s)
	case dateAnyPattern.MatchString(s):
		for _, layout := range []string{"2/1/2006", "2/1/06", "2-1-2006", "2-1-06", "02-01-2006"} {
			if t, ok := parseWithLayout(layout, s); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseWithLayout(layout, s string) (time.Time, bool) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// parseOFXDate reads an OFX timestamp (YYYYMMDD or YYYYMMDDHHMMSS, possibly
// followed by a timezone suffix). Only the calendar date is kept.
func parseOFXDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
