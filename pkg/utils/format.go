// Package utils provides common utility functions for HealthLens.
package utils

import (
	"strconv"
	"strings"
)

// Age bounds accepted from user input.
const (
	MinAge = 0
	MaxAge = 120
)

// ClampAge constrains an age value to the accepted range.
func ClampAge(age int) int {
	if age < MinAge {
		return MinAge
	}
	if age > MaxAge {
		return MaxAge
	}
	return age
}

// ParseAge parses an age string from a form field and clamps it to the
// accepted range. Unparseable input yields defaultAge.
func ParseAge(s string, defaultAge int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return ClampAge(defaultAge)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ClampAge(defaultAge)
	}
	return ClampAge(n)
}

// FormatMetric formats a metric value for display, trimming insignificant
// trailing zeros so "7.50" renders as "7.5" and "72.00" as "72".
func FormatMetric(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// FormatSteps formats a step count with thousands separators (12,345).
func FormatSteps(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
