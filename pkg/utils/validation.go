package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column widths of the consent schema
const (
	MaxIdentifierLength     = 255
	MaxStatusLength         = 64
	MaxAttributeValueLength = 1023
)

// ValidateConsentID validates consent ID format
func ValidateConsentID(consentID string) error {
	if strings.TrimSpace(consentID) == "" {
		return fmt.Errorf("consent ID cannot be empty")
	}
	if len(consentID) > 255 {
		return fmt.Errorf("consent ID too long (max 255 characters)")
	}
	return nil
}

// ValidateClientID validates client ID format
func ValidateClientID(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return fmt.Errorf("client ID cannot be empty")
	}
	if len(clientID) > 255 {
		return fmt.Errorf("client ID too long (max 255 characters)")
	}
	return nil
}

// ValidateConsentType validates consent type
func ValidateConsentType(consentType string) error {
	if strings.TrimSpace(consentType) == "" {
		return fmt.Errorf("consent type cannot be empty")
	}
	if len(consentType) > 64 {
		return fmt.Errorf("consent type too long (max 64 characters)")
	}
	return nil
}

// ValidateStatus validates a consent or authorization status value.
// The set of legal statuses is deployment defined, so only shape is checked here.
func ValidateStatus(status string) error {
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("status cannot be empty")
	}
	if len(status) > MaxStatusLength {
		return fmt.Errorf("status too long (max %d characters)", MaxStatusLength)
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// ValidateOffset validates pagination offset
func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength validates maximum string length in characters
func ValidateMaxLength(fieldName, value string, maxLength int) error {
	if utf8.RuneCountInString(value) > maxLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, maxLength)
	}
	return nil
}

// ValidateAttributes checks that attribute keys are present and that keys and values fit their columns
func ValidateAttributes(attributes map[string]string) error {
	for key, value := range attributes {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("consent attribute keys must not be empty")
		}
		if err := ValidateMaxLength("consent attribute key", key, MaxIdentifierLength); err != nil {
			return err
		}
		if err := ValidateMaxLength("consent attribute "+key, value, MaxAttributeValueLength); err != nil {
			return err
		}
	}
	return nil
}
