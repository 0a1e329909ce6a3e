package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Date-of-birth patterns, tried in order; the first match wins.
var dobPatterns = []struct {
	name    string
	pattern *regexp.Regexp
	parse   func(m []string) (year, month, day int, ok bool)
}{
	{
		name:    "iso",
		pattern: regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`),
		parse: func(m []string) (int, int, int, bool) {
			return atoi3(m[1], m[2], m[3])
		},
	},
	{
		// Day-first by convention, not locale-sensitive.
		name:    "day-first",
		pattern: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		parse: func(m []string) (int, int, int, bool) {
			return atoi3(m[3], m[2], m[1])
		},
	},
	{
		name:    "ordinal",
		pattern: regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`),
		parse: func(m []string) (int, int, int, bool) {
			month, ok := monthsByName[strings.ToLower(m[2])]
			if !ok {
				return 0, 0, 0, false
			}
			year, _ := strconv.Atoi(m[3])
			day, _ := strconv.Atoi(m[1])
			return year, int(month), day, true
		},
	},
	{
		name:    "month-first",
		pattern: regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2}),?\s+(\d{4})\b`),
		parse: func(m []string) (int, int, int, bool) {
			month, ok := monthsByName[strings.ToLower(m[1])]
			if !ok {
				return 0, 0, 0, false
			}
			year, _ := strconv.Atoi(m[3])
			day, _ := strconv.Atoi(m[2])
			return year, int(month), day, true
		},
	},
}

// DOB finds a date of birth and normalizes it to zero-padded YYYY-MM-DD.
// Extraction only runs when identityAsked is true, the same gate Name uses:
// the ISO pattern would otherwise swallow appointment dates like
// "2025-03-10 at 10:00" as a birth date.
func DOB(text string, identityAsked bool) (string, bool) {
	if !identityAsked {
		return "", false
	}
	for _, p := range dobPatterns {
		m := p.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, month, day, ok := p.parse(m)
		if !ok || month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}
	return "", false
}

func atoi3(a, b, c string) (int, int, int, bool) {
	x, err1 := strconv.Atoi(a)
	y, err2 := strconv.Atoi(b)
	z, err3 := strconv.Atoi(c)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return x, y, z, true
}
