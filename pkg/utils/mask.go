package utils

import "unicode/utf8"

// MaskEmail masks the email address by replacing the local part with asterisks
// Example: abcd@domain.com -> a***@domain.com
func MaskEmail(email *string) string {
	if email == nil || *email == "" {
		return ""
	}
	at := -1
	for i, c := range *email {
		if c == '@' {
			at = i
			break
		}
	}
	if at <= 1 {
		return "***" + (*email)[at:]
	}
	return (*email)[:1] + "***" + (*email)[at:]
}

// MaskPhone masks a phone number, keeping country prefix (e.g., +84)
// and last 3 digits visible, masking the middle part with '*'.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}

	if utf8.RuneCountInString(phone) <= 8 {
		return phone
	}

	prefixLen := 5
	suffixLen := 3

	if len(phone) <= prefixLen+suffixLen {
		return phone
	}

	prefix := phone[:prefixLen]
	suffix := phone[len(phone)-suffixLen:]
	masked := ""
	maskCount := len(phone) - prefixLen - suffixLen
	for i := 0; i < maskCount; i++ {
		masked += "*"
	}
	return prefix + masked + suffix
}
