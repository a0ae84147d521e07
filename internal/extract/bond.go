package extract

import (
	"strconv"
	"strings"
)

// ParseBond finds a currency amount immediately followed by the word "bond"
// and converts it to integer currency units. "million"/"M" multiply by
// 1,000,000 and "thousand"/"K" by 1,000. Returns ok=false when no bond
// amount is present.
func ParseBond(text string) (int64, bool) {
	m := bondRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	amountStr := strings.ReplaceAll(m[1], ",", "")
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[2]) {
	case "million", "m":
		amount *= 1_000_000
	case "thousand", "k":
		amount *= 1_000
	}

	return int64(amount), true
}
