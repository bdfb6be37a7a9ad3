package utils

import (
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func NowUTC() time.Time { return time.Now().UTC() }

// ParseTimestamp reads the optional SMS timestamp. Empty or unparsable input yields fallback.
// Bare integers are treated as epoch milliseconds (gateway apps send Date.now()).
func ParseTimestamp(raw *string, fallback time.Time) time.Time {
	if raw == nil {
		return fallback
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return fallback
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC()
	}
	return fallback
}
