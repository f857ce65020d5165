package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseAmount parses a contribution amount that arrives as a free-form
// string from the mobile clients. Garbled or missing values count as zero so
// a single bad record never aborts a detection run.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseUnixSeconds parses a unix-seconds timestamp string. Returns the zero
// time for values that cannot be parsed.
func ParseUnixSeconds(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}
