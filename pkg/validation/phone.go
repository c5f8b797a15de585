package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrPhoneRequired = errors.New("Phone number is required")

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

func ValidateE164(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrPhoneRequired
	}

	if !e164Regex.MatchString(phone) {
		return fmt.Errorf("phone number must be in E.164 format (e.g., +919876543210)")
	}

	return nil
}

// NormalizeE164 strips formatting and assumes India (+91) for bare
// 10-digit numbers, matching how farmers type numbers into the trigger CLI.
func NormalizeE164(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", ErrPhoneRequired
	}
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)

	if !strings.HasPrefix(phone, "+") {
		switch {
		case strings.HasPrefix(phone, "91") && len(phone) == 12:
			phone = "+" + phone
		case strings.HasPrefix(phone, "0") && len(phone) == 11:
			phone = "+91" + phone[1:]
		case len(phone) == 10:
			phone = "+91" + phone
		default:
			return "", fmt.Errorf("cannot normalize phone number: %s", phone)
		}
	}

	if err := ValidateE164(phone); err != nil {
		return "", err
	}

	return phone, nil
}
