// Package phone normalizes stored phone numbers for display.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed to be Israeli; the lead
// tables hold both local 0x-prefixed and full +972 forms.
const defaultRegion = "IL"

// NormalizeE164 formats a phone number to E.164. Unparseable or invalid
// input comes back trimmed but otherwise untouched, since a raw number is
// still more useful than nothing.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
