// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// NormalizeE164 formats a phone number to E.164. Returns the formatted
// number and true on success, or "" and false when the input cannot be
// parsed as a valid number for the default region.
func NormalizeE164(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return "", false
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}
