package domain

import "strings"

const maxPhoneDigits = 11

// FormatPhone renders a Brazilian phone number as "(DD) DDDDD-DDDD" while it
// is typed. Non-digits are dropped and at most 11 digits are kept.
func FormatPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' && b.Len() < maxPhoneDigits {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch n := len(digits); {
	case n > 6:
		return "(" + digits[:2] + ") " + digits[2:7] + "-" + digits[7:]
	case n > 2:
		return "(" + digits[:2] + ") " + digits[2:]
	case n > 0:
		return "(" + digits
	default:
		return ""
	}
}
