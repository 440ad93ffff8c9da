// Package validation provides form field validators for the server-rendered
// UI. Messages are user-facing and rendered next to the offending field.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validator checks a string value and returns a user-facing error message,
// or "" when the value is acceptable.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen
// characters. Lengths are counted in runes so multibyte input is not
// penalized.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional validates that a field, when provided, does not exceed maxLen
// characters. Empty values always pass.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
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

// Validate runs the validators against the value in order, keeping the first
// error per field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors keyed by field name.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}
