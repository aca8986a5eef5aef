package form

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator checks a single value and returns an error message, or "" when
// the value is acceptable.
type Validator func(v string) string

// CrossValidator checks a value against the rest of the form.
type CrossValidator func(v string, values Values) string

// Required validates that a field is not blank.
func Required(message string) Validator {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return message
		}
		return ""
	}
}

// MinLength validates the rune count of a non-blank value.
func MinLength(n int, message string) Validator {
	return func(v string) string {
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) < n {
			return message
		}
		return ""
	}
}

// Email validates a bare address such as ops@example.com.
func Email(message string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
			return message
		}
		return ""
	}
}

// Pattern validates that a non-blank value matches re.
func Pattern(re *regexp.Regexp, message string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if !re.MatchString(v) {
			return message
		}
		return ""
	}
}

// Matches validates that the value equals another field.
func Matches(field, message string) CrossValidator {
	return func(v string, values Values) string {
		if v != values[field] {
			return message
		}
		return ""
	}
}

// PhonePattern accepts Vietnamese mobile numbers: +84, 84 or 0 followed by
// a 3-9 prefix and eight digits.
var PhonePattern = regexp.MustCompile(`^(\+84|84|0)[3-9][0-9]{8}$`)

func requiredMsg(label string) string { return fmt.Sprintf("%s is required", label) }
