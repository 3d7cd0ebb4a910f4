package application

import (
	"fmt"
	"strings"

	"atelier/internal/domain"
)

// MaxNameLength bounds folder and asset names in the UI layer.
const MaxNameLength = 256

// ValidateName checks a user-supplied folder or asset name. Empty
// names (after trimming whitespace) are rejected.
func ValidateName(fieldName, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", fieldName),
		}
	}
	if len(trimmed) > MaxNameLength {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s exceeds %d characters", fieldName, MaxNameLength),
		}
	}
	return nil
}

// ValidateID checks that value is a well-formed identifier.
func ValidateID(fieldName, value string) error {
	if !domain.IsValidID(value) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid ID: %s", value),
		}
	}
	return nil
}
