package tools

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ErrInvalidPhone is returned for numbers that do not reduce to 10-15 digits.
var ErrInvalidPhone = errors.New("Invalid phone number format. Use E.164 format (e.g., 917834811114)")

// ValidatePhoneNumber keeps only the digits of raw and accepts the result
// when it has between 10 and 15 of them (E.164 without '+').
//
//	"+91 783-481-1114" -> "917834811114"
func ValidatePhoneNumber(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if len(phone) < 10 || len(phone) > 15 {
		return "", false
	}
	return phone, true
}

// FormatPhoneForGupshup is ValidatePhoneNumber with an error for callers
// that surface the failure to the client.
func FormatPhoneForGupshup(raw string) (string, error) {
	phone, ok := ValidatePhoneNumber(raw)
	if !ok {
		return "", ErrInvalidPhone
	}
	return phone, nil
}
