// Package phone normalizes customer phone numbers for messaging.
package phone

import (
	"errors"
	"strings"
)

// DefaultCountryCode is prepended to national numbers.
const DefaultCountryCode = "90"

// ErrInvalid is returned for numbers that cannot be turned into E.164 digits.
var ErrInvalid = errors.New("invalid phone number")

// Normalize returns the number as international digits without a leading
// plus sign, the form the WhatsApp Cloud API expects.
//
//	"0532 123 45 67"   -> "905321234567"
//	"+90 532 123 4567" -> "905321234567"
//	"5321234567"       -> "905321234567"
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = DefaultCountryCode + digits[1:]
	case len(digits) == 10 && strings.HasPrefix(digits, "5"):
		digits = DefaultCountryCode + digits
	}

	if len(digits) < 10 || len(digits) > 15 {
		return "", ErrInvalid
	}
	return digits, nil
}

// Valid reports whether raw can be normalized.
func Valid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}
