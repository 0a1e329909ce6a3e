// Package extract pulls structured facts out of raw patient utterances.
// Every extractor is a pure function: absence of a fact is a normal
// outcome reported through the bool return, never an error.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
	"jan":       time.January,
	"feb":       time.February,
	"mar":       time.March,
	"apr":       time.April,
	"jun":       time.June,
	"jul":       time.July,
	"aug":       time.August,
	"sep":       time.September,
	"oct":       time.October,
	"nov":       time.November,
	"dec":       time.December,
}

var monthDayPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)

// Date finds an appointment date in the utterance. Date keys already
// advertised in the availability table are the trusted vocabulary and are
// matched first as literal substrings. The month-name fallback assumes the
// current year and is accepted only when the resulting key is in knownDates,
// so extraction never produces a date the clinic has no entry for.
func Date(text string, knownDates []string, now time.Time) (string, bool) {
	for _, key := range knownDates {
		if key != "" && strings.Contains(text, key) {
			return key, true
		}
	}

	m := monthDayPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	month, ok := monthsByName[strings.ToLower(m[1])]
	if !ok {
		return "", false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	candidate := fmt.Sprintf("%04d-%02d-%02d", now.Year(), int(month), day)
	for _, key := range knownDates {
		if key == candidate {
			return candidate, true
		}
	}
	return "", false
}
