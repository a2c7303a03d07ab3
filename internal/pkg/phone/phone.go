package phone

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers entered without a country prefix.
const DefaultRegion = "US"

var ErrImpossibleNumber = errors.New("phone number has an impossible length for its region")

// Normalize parses a user-entered number and returns it in E.164 form.
// Numbers with a leading "+" are parsed as international; anything else is
// read in region (DefaultRegion when empty).
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("phone number cannot be empty")
	}
	if region == "" {
		region = DefaultRegion
	}

	parsed, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}
	if !phonenumbers.IsPossibleNumber(parsed) {
		return "", ErrImpossibleNumber
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// Display formats an E.164 number for operators, falling back to the input.
func Display(e164 string) string {
	parsed, err := phonenumbers.Parse(e164, DefaultRegion)
	if err != nil {
		return e164
	}
	if phonenumbers.GetRegionCodeForNumber(parsed) == DefaultRegion {
		return phonenumbers.Format(parsed, phonenumbers.NATIONAL)
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
}
