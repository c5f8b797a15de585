package utils

import (
	"regexp"
	"strings"
)

var (
	e164Parts = regexp.MustCompile(`^(\+)(\d{1,3})(\d{3})(\d+)$`)
	e164      = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// MaskPhoneNumber masks a phone number for logging
// Example: +919876543210 -> +919876••3210
func MaskPhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	if m := e164Parts.FindStringSubmatch(phone); len(m) == 5 {
		rest := m[4]
		if len(rest) >= 4 {
			return "+" + m[2] + m[3] + strings.Repeat("•", len(rest)-4) + rest[len(rest)-4:]
		}
	}

	if len(phone) > 4 {
		return strings.Repeat("•", len(phone)-4) + phone[len(phone)-4:]
	}
	return strings.Repeat("•", len(phone))
}

// ValidateE164 reports whether phone is in E.164 format
func ValidateE164(phone string) bool {
	return e164.MatchString(phone)
}
