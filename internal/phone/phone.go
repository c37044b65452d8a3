// Package phone canonicalizes US phone numbers so that lookups by a
// webhook-supplied phone succeed regardless of how the number was formatted
// when it was stored.
package phone

import "strings"

// Normalize strips all non-digit characters and returns the canonical form:
// 10 digits become +1XXXXXXXXXX, 11 digits with a leading 1 become
// +1XXXXXXXXXX, and anything else is returned as + followed by the raw
// digits. There is no error path; garbage in, garbage out.
func Normalize(raw string) string {
	digits := stripNonDigits(raw)
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	default:
		return "+" + digits
	}
}

// Last10 returns the last 10 digits of the normalized form. It is the
// matching key used against the person store, tolerating historical records
// stored without a country code.
func Last10(raw string) string {
	digits := stripNonDigits(Normalize(raw))
	if len(digits) <= 10 {
		return digits
	}
	return digits[len(digits)-10:]
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
