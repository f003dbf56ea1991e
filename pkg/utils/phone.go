package utils

import "strings"

// NormalizeNumber strips formatting characters from a dialable number,
// preserving a single leading "+".
func NormalizeNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// formatting noise
		default:
			return ""
		}
	}
	return b.String()
}

// IsValidE164 reports whether the number is a plausible E.164 DID:
// leading +, then 7 to 15 digits, first digit non-zero.
func IsValidE164(number string) bool {
	if len(number) < 8 || len(number) > 16 {
		return false
	}
	if number[0] != '+' || number[1] == '0' {
		return false
	}
	for _, r := range number[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidExtensionNumber reports whether the number is a short internal
// extension: 2 to 6 digits.
func IsValidExtensionNumber(number string) bool {
	if len(number) < 2 || len(number) > 6 {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
