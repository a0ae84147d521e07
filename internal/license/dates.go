package license

import (
	"strings"
	"time"
)

// expiryLayouts are attempted in order after the compact 8-digit form.
var expiryLayouts = []string{
	"1/2/2006",       // MM/DD/YYYY
	"2006-1-2",       // YYYY-MM-DD
	"2-1-2006",       // DD-MM-YYYY
	"Jan 2, 2006",    // abbreviated month
	"January 2, 2006", // full month
}

// ParseExpiry parses a registry expiration-date string. Registries emit
// several formats; each is attempted in a fixed order. Returns ok=false for
// anything unparseable, which downstream treats as an inactive license.
func ParseExpiry(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	// Compact MMDDYYYY.
	if len(s) == 8 && allDigits(s) {
		if t, err := time.Parse("01022006", s); err == nil {
			return t, true
		}
	}

	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
