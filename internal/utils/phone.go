package utils

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhone is returned when a supplied phone number cannot be
// parsed or is not valid for its region.
var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone validates a phone number and returns it in E.164
// format. defaultRegion is the ISO 3166-1 region used for numbers
// without an international prefix; an empty input is returned as-is so
// callers can treat the field as optional.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
