// Package phone provides phone number utilities.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "US"

func region(r string) string {
	if r == "" {
		return DefaultRegion
	}
	return strings.ToUpper(r)
}

// IsPlausible reports whether input parses as a possible phone number.
// Blank input is plausible: the phone field is optional.
func IsPlausible(input, defaultRegion string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}

	number, err := phonenumbers.Parse(trimmed, region(defaultRegion))
	if err != nil {
		return false
	}

	return phonenumbers.IsPossibleNumber(number)
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input, defaultRegion string) string {
	return format(input, defaultRegion, phonenumbers.E164)
}

// FormatInternational formats a phone number for display, e.g. "+1 201-555-0123".
// Numbers that do not parse are returned trimmed.
func FormatInternational(input, defaultRegion string) string {
	return format(input, defaultRegion, phonenumbers.INTERNATIONAL)
}

func format(input, defaultRegion string, f phonenumbers.PhoneNumberFormat) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, region(defaultRegion))
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, f)
}
