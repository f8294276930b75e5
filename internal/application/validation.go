package application

import (
	"fmt"
	"strings"

	"postino/internal/uri"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", fieldName),
		}
	}
	return nil
}

// ValidateURI checks that a field holds a lexable resource address, so
// malformed input fails before any store is touched. Returns a
// ValidationError carrying the lexer's reason.
func ValidateURI(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if _, err := uri.Parse(value); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: err.Error(),
		}
	}
	return nil
}
