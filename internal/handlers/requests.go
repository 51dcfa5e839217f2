package handlers

import (
	"encoding/json"

	"github.com/wso2/ob-consent-mgt/internal/models"
)

// CreateConsentBody is the POST /consents payload
type CreateConsentBody struct {
	ClientID           string             `json:"clientId"`
	Type               string             `json:"type"`
	Status             string             `json:"status"`
	Receipt            json.RawMessage    `json:"receipt"`
	Frequency          int                `json:"frequency"`
	ValidityPeriod     int64              `json:"validityPeriod"`
	RecurringIndicator bool               `json:"recurringIndicator"`
	Attributes         map[string]string  `json:"attributes"`
	Authorization      *AuthorizationBody `json:"authorization,omitempty"`
	Exclusive          *ExclusiveBody     `json:"exclusive,omitempty"`
}

// AuthorizationBody requests an implicit authorization at creation time
type AuthorizationBody struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ExclusiveBody retires the user's existing consents of the same client and type
type ExclusiveBody struct {
	ApplicableStatuses []string `json:"applicableStatuses"`
	NewExistingStatus  string   `json:"newExistingStatus"`
}

// UpdateStatusBody is the PUT /consents/:consentId/status payload
type UpdateStatusBody struct {
	Status   string `json:"status"`
	Reason   string `json:"reason"`
	ActionBy string `json:"actionBy"`
}

// RevokeBody is the POST /consents/:consentId/revoke payload
type RevokeBody struct {
	Status       string `json:"status"`
	UserID       string `json:"userId"`
	Reason       string `json:"reason"`
	RevokeTokens bool   `json:"revokeTokens"`
}

// BulkRevokeBody is the POST /consents/revoke payload
type BulkRevokeBody struct {
	ClientID         string `json:"clientId"`
	UserID           string `json:"userId"`
	Type             string `json:"type"`
	ApplicableStatus string `json:"applicableStatus"`
	Status           string `json:"status"`
	RevokeTokens     bool   `json:"revokeTokens"`
}

// BindBody is the POST /consents/:consentId/bind payload.
// AccountIDs are bound with the n/a permission when Accounts is empty.
type BindBody struct {
	AuthID        string                         `json:"authId"`
	UserID        string                         `json:"userId"`
	Accounts      models.AccountsWithPermissions `json:"accounts"`
	AccountIDs    []string                       `json:"accountIds"`
	AuthStatus    string                         `json:"authStatus"`
	ConsentStatus string                         `json:"consentStatus"`
}

// ReauthorizeBody is the POST /consents/:consentId/reauthorize payload.
// Without AuthID the user's authorizations are superseded by a new one.
type ReauthorizeBody struct {
	AuthID                string                         `json:"authId"`
	UserID                string                         `json:"userId"`
	Accounts              models.AccountsWithPermissions `json:"accounts"`
	CurrentStatus         string                         `json:"currentStatus"`
	NewStatus             string                         `json:"newStatus"`
	NewExistingAuthStatus string                         `json:"newExistingAuthStatus"`
	NewAuthStatus         string                         `json:"newAuthStatus"`
	NewAuthType           string                         `json:"newAuthType"`
}

// AmendBody is the PUT /consents/:consentId/amend payload
type AmendBody struct {
	Receipt           json.RawMessage                `json:"receipt"`
	ValidityPeriod    *int64                         `json:"validityPeriod"`
	AuthID            string                         `json:"authId"`
	Accounts          models.AccountsWithPermissions `json:"accounts"`
	Status            string                         `json:"status"`
	Attributes        map[string]string              `json:"attributes"`
	UserID            string                         `json:"userId"`
	Reason            string                         `json:"reason"`
	NewAuthorizations []NewAuthorizationBody         `json:"newAuthorizations"`
}

// NewAuthorizationBody is an authorization added by an amendment
type NewAuthorizationBody struct {
	UserID   string                         `json:"userId"`
	Type     string                         `json:"type"`
	Status   string                         `json:"status"`
	Accounts models.AccountsWithPermissions `json:"accounts"`
}

// UpdateAuthorizationBody is the payload of the authorization status and user updates
type UpdateAuthorizationBody struct {
	Status   string `json:"status"`
	UserID   string `json:"userId"`
	ActionBy string `json:"actionBy"`
}

// receipt keeps a JSON receipt as its raw text; absent and null receipts are empty
func receipt(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func receiptPtr(raw json.RawMessage) *string {
	r := receipt(raw)
	if r == "" {
		return nil
	}
	return &r
}
