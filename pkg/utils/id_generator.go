package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new UUID
func GenerateID() string {
	return uuid.New().String()
}

// GenerateConsentID generates a unique consent ID
func GenerateConsentID() string {
	return GenerateID()
}

// GenerateAuthID generates a unique authorization ID
func GenerateAuthID() string {
	return GenerateID()
}

// GenerateMappingID generates a unique account mapping ID
func GenerateMappingID() string {
	return GenerateID()
}

// GenerateAuditID generates a unique status audit ID
func GenerateAuditID() string {
	return GenerateID()
}

// GenerateHistoryID generates a unique amendment history ID
func GenerateHistoryID() string {
	return GenerateID()
}
