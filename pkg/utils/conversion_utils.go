package utils

import (
	"fmt"
	"strconv"
	"time"
)

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse '%s' as int64: %w", s, err)
	}
	return num, nil
}

// DateLayout is the layout accepted for date-only query parameters.
const DateLayout = "2006-01-02"

// ParseDateOrDateTime accepts either RFC3339 or YYYY-MM-DD.
func ParseDateOrDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or %s, got '%s'", DateLayout, s)
	}
	return t, nil
}
