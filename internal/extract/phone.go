package extract

import "fmt"

// NormalizePhone formats a phone number as (NNN) NNN-NNNN when 10 digits
// (or 11 with a leading US country code) are recoverable. Anything else is
// returned unchanged.
func NormalizePhone(raw string) string {
	var digits []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	switch {
	case len(digits) == 11 && digits[0] == '1':
		digits = digits[1:]
	case len(digits) != 10:
		return raw
	}

	return fmt.Sprintf("(%s) %s-%s", digits[0:3], digits[3:6], digits[6:10])
}
