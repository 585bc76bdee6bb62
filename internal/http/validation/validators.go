// Package validation holds small composable checks for form input. Each
// validator returns a user-facing message, or "" when the value passes, so
// handlers can map messages straight onto field error spans.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator checks a single string value and returns a message when it fails.
type Validator func(v string) string

// length counts runes, not bytes, so multi-byte input is measured the way
// users perceive it.
func length(v string) int {
	return utf8.RuneCountInString(v)
}

func tooLong(label string, maxLen int) string {
	return fmt.Sprintf("%s cannot exceed %d characters.", label, maxLen)
}

// Required rejects blank values and values longer than maxLen runes.
func Required(label string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return label + " is required."
		}
		if length(v) > maxLen {
			return tooLong(label, maxLen)
		}
		return ""
	}
}

// RequiredRange rejects blank values and values outside [minLen, maxLen] runes.
func RequiredRange(label string, minLen, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return label + " is required."
		}
		if n := length(v); n < minLen || n > maxLen {
			return fmt.Sprintf("%s must be between %d and %d characters.", label, minLen, maxLen)
		}
		return ""
	}
}

// Optional passes blank values through and applies only the length cap.
func Optional(label string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v != "" && length(v) > maxLen {
			return tooLong(label, maxLen)
		}
		return ""
	}
}

// IntRange requires an integer between minVal and maxVal inclusive.
func IntRange(label string, minVal, maxVal int) Validator {
	return func(v string) string {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return label + " must be a number."
		}
		if n < minVal || n > maxVal {
			return fmt.Sprintf("%s must be between %d and %d.", label, minVal, maxVal)
		}
		return ""
	}
}

// HTTPSURL requires a parseable http or https URL with a host, capped at
// maxLen runes.
func HTTPSURL(label string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return label + " is required."
		}
		if length(v) > maxLen {
			return tooLong(label, maxLen)
		}
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "Enter a valid http(s) URL."
		}
		return ""
	}
}

// OneOf requires the value to match one of options, ignoring case.
func OneOf(label string, options []string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		for _, opt := range options {
			if strings.EqualFold(v, opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(options, ", "))
	}
}

// Pattern requires non-blank values to match re. Blank values pass; combine
// with Required when the field is mandatory.
func Pattern(label string, re *regexp.Regexp) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" || re.MatchString(v) {
			return ""
		}
		return label + " has an invalid format."
	}
}

// FieldValidator accumulates per-field errors across a form.
type FieldValidator struct {
	errors map[string]string
}

// New creates an empty FieldValidator.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate runs validators against value in order and records the first
// failure under field. Later validators for the same field are skipped once
// one has failed.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, check := range validators {
		if msg := check(value); msg != "" {
			fv.errors[field] = msg
			break
		}
	}
	return fv
}

// Errors returns the accumulated field errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
