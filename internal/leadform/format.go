package leadform

import (
	"regexp"
	"strings"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	unsafeCharPattern = regexp.MustCompile("[<>\"'`;]")
)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// digitsOnly strips every non-digit byte from s.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhoneInput masks a phone number as the user types:
// (DD) DDDD-DDDD for 10 digits, (DD) DDDDD-DDDD for 11. Extra digits are
// discarded, so applying the formatter twice is a no-op.
func FormatPhoneInput(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 11 {
		digits = digits[:11]
	}
	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 7:
		return "(" + digits[:2] + ") " + digits[2:]
	default:
		split := 7
		if len(digits) <= 10 {
			split = 6
		}
		return "(" + digits[:2] + ") " + digits[2:split] + "-" + digits[split:]
	}
}

// FormatBirthdayInput masks a date as the user types: DD/MM/AAAA.
func FormatBirthdayInput(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 8 {
		digits = digits[:8]
	}
	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
}

// BirthdayToISO converts DD/MM/YYYY to YYYY-MM-DD for storage. Returns the
// empty string for blank or malformed input.
func BirthdayToISO(value string) string {
	if value == "" {
		return ""
	}
	if _, _, _, ok := splitBirthday(value); !ok {
		return ""
	}
	return value[6:10] + "-" + value[3:5] + "-" + value[0:2]
}

// Sanitize strips HTML tags and characters with no business in a lead field.
func Sanitize(value string) string {
	value = htmlTagPattern.ReplaceAllString(value, "")
	value = unsafeCharPattern.ReplaceAllString(value, "")
	return strings.TrimSpace(value)
}
