package normalize

import (
	"strings"
	"time"
)

// Date parses the export's date encodings into canonical YYYY-MM-DD.
// Accepted: YYYYMMDD, YYYYMM (day 1), YYYY (Jan 1), and MM/DD/YYYY or
// MM/DD/YY with or without zero padding.
// Anything else, including digit strings with impossible calendar values,
// yields ok=false. No locale-dependent parsing.
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if strings.Contains(s, "/") {
		// The export is inconsistent about zero-padding, so both forms are
		// tried.
		for _, layout := range []string{"01/02/2006", "01/02/06", "1/2/2006", "1/2/06"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return "", false
	}

	if !isDigits(s) {
		return "", false
	}

	switch len(s) {
	case 8:
		if t, err := time.Parse("20060102", s); err == nil {
			return t.Format("2006-01-02"), true
		}
	case 6:
		if t, err := time.Parse("200601", s); err == nil {
			return t.Format("2006-01") + "-01", true
		}
	case 4:
		if t, err := time.Parse("2006", s); err == nil {
			return t.Format("2006") + "-01-01", true
		}
	}
	return "", false
}

// DatePtr is Date for optional columns: nil when the input has no usable
// date.
func DatePtr(s string) *string {
	if iso, ok := Date(s); ok {
		return &iso
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
