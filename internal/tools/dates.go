package tools

import (
	"fmt"
	"strings"
	"time"
)

// parseDueDate turns a natural or ISO date argument into epoch milliseconds
// at local midnight. Accepts "today", "tomorrow" or "YYYY-MM-DD"; an empty
// string means no due date.
func parseDueDate(value string, now time.Time) (*int64, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return nil, nil
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var day time.Time
	switch value {
	case "today":
		day = start
	case "tomorrow":
		day = start.AddDate(0, 0, 1)
	default:
		parsed, err := time.ParseInLocation("2006-01-02", value, now.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: use today, tomorrow or YYYY-MM-DD", value)
		}
		day = parsed
	}

	ms := day.UnixMilli()
	return &ms, nil
}

// formatDueDate renders an epoch-millisecond due date for tool output
func formatDueDate(ms *int64) string {
	if ms == nil {
		return ""
	}
	return time.UnixMilli(*ms).Format("2006-01-02")
}
