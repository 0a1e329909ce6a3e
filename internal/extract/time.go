package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockPattern  = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
	hourPattern   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
	oclockPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*o'?\s?clock\b`)
)

// Time finds an appointment time in the utterance and normalizes it to
// 24-hour HH:MM. Recognized shapes: "10:30", "3 PM", "10 o'clock".
func Time(text string) (string, bool) {
	if m := clockPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if normalized, ok := normalizeClock(hour, minute, m[3]); ok {
			return normalized, true
		}
	}
	if m := hourPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if normalized, ok := normalizeClock(hour, 0, m[2]); ok {
			return normalized, true
		}
	}
	if m := oclockPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if normalized, ok := normalizeClock(hour, 0, ""); ok {
			return normalized, true
		}
	}
	return "", false
}

func normalizeClock(hour, minute int, meridiem string) (string, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", false
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
