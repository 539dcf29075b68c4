package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInt64 converts the values returned by Redis and SQL drivers to int64
// using explicit type switching. Unlike a lenient conversion it reports
// unparseable input, because a counter silently read as zero is a wrong count.
func ParseInt64(val any) (int64, error) {
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	case []byte:
		return strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
	case nil:
		return 0, fmt.Errorf("cannot convert nil to int64")
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", val)
	}
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Abs returns the magnitude of a signed count.
func Abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
