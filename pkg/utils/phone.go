package utils

import (
	"github.com/nyaruka/phonenumbers"
)

// FormatE164 parses the given phone number and returns it in E.164
// format. defaultRegion is used for numbers without a country prefix.
func FormatE164(phone, defaultRegion string) (string, error) {
	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// IsValidPhone reports whether the phone number parses and is valid
// for its region.
func IsValidPhone(phone, defaultRegion string) bool {
	num, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
