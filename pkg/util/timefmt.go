package util

import (
	"fmt"
	"regexp"
	"strings"
)

// Stored opening/closing times arrive in several shapes depending on how the
// row was written: plain "HH:MM", a full timestamp string with an embedded
// clock time, or nothing at all.
var (
	plainTimePattern    = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	embeddedTimePattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// DefaultTime is emitted when no recognizable clock time is found.
const DefaultTime = "09:00"

// FormatTime normalizes a stored time value to canonical "HH:MM".
func FormatTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTime
	}

	if plainTimePattern.MatchString(value) {
		if len(value) == 4 { // "8:00" -> "08:00"
			return "0" + value
		}
		return value
	}

	if m := embeddedTimePattern.FindStringSubmatch(value); m != nil {
		hour := m[1]
		if len(hour) == 1 {
			hour = "0" + hour
		}
		return fmt.Sprintf("%s:%s", hour, m[2])
	}

	return DefaultTime
}
