// Package normalize holds the date and time normalizers applied to extracted
// invoice fields. Both are total: they degrade to a safe default instead of
// returning an error.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reDayFirst  = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})`)
	reYearFirst = regexp.MustCompile(`(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})`)
	reDigits    = regexp.MustCompile(`^\d+$`)
	reClock     = regexp.MustCompile(`(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?`)
)

// Non-date/time markers seen in scanned invoices (fuel card refs, OCR noise).
var sentinelMarkers = []string{"wex", "unknown"}

// Date converts a date string to DD.MM.YYYY. Null-like and sentinel values
// yield ""; strings that match no known layout are returned unchanged.
func Date(s string) string {
	if out, ok := MatchDate(s); ok {
		return out
	}
	return strings.TrimSpace(s)
}

// MatchDate reports whether s matched a known date layout (or a null-like
// value, which counts as a match to ""). The bool lets callers distinguish
// "no match, input preserved" from a recognized value.
func MatchDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if isNullLike(s) {
		return "", true
	}
	if hasSentinel(s) {
		return "", true
	}

	// D[./-]M[./-]YY[YY]; two-digit years are assumed to be 20xx.
	// Checked before the year-first layout, so an ISO date like 2023-05-12
	// matches mid-string as 23-05-12.
	if m := reDayFirst.FindStringSubmatch(s); m != nil {
		day, month, year := m[1], m[2], m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return fmt.Sprintf("%s.%s.%s", pad2(day), pad2(month), year), true
	}

	// YYYY[./-]M[./-]D
	if m := reYearFirst.FindStringSubmatch(s); m != nil {
		year, month, day := m[1], m[2], m[3]
		return fmt.Sprintf("%s.%s.%s", pad2(day), pad2(month), year), true
	}

	// Bare digit runs are read positionally as DDMMYYYY when plausible.
	if reDigits.MatchString(s) && len(s) >= 8 {
		day, month, year := s[:2], s[2:4], s[4:8]
		dayVal, _ := strconv.Atoi(day)
		monthVal, _ := strconv.Atoi(month)
		if dayVal >= 1 && dayVal <= 31 && monthVal >= 1 && monthVal <= 12 {
			return fmt.Sprintf("%s.%s.%s", day, month, year), true
		}
	}

	return "", false
}

// Time converts a time string to HH:MM:SS, or "" when unrecognized. Unlike
// Date, unmatched input is not preserved.
func Time(s string) string {
	out, _ := MatchTime(s)
	return out
}

// MatchTime reports whether s matched a clock layout or a null-like value.
func MatchTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if isNullLike(s) {
		return "", true
	}
	// A slash means the value is a date fragment, not a time.
	if hasSentinel(s) || strings.Contains(s, "/") {
		return "", true
	}

	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	second := m[3]
	if second == "" {
		second = "00"
	}
	return fmt.Sprintf("%s:%s:%s", pad2(m[1]), pad2(m[2]), pad2(second)), true
}

func isNullLike(s string) bool {
	if s == "" {
		return true
	}
	switch strings.ToLower(s) {
	case "none", "nan", "null":
		return true
	}
	return false
}

func hasSentinel(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range sentinelMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
