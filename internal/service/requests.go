package service

import "github.com/wso2/ob-consent-mgt/internal/models"

// CreateConsentRequest carries a new consent and, for implicit authorization,
// the initial authorization resource
type CreateConsentRequest struct {
	Consent      models.ConsentResource
	Attributes   map[string]string
	UserID       string
	AuthStatus   string
	AuthType     string
	ImplicitAuth bool
}

// ExclusiveConsentRequest creates a consent after retiring the user's existing
// consents of the same client and type
type ExclusiveConsentRequest struct {
	CreateConsentRequest
	ApplicableExistingStatuses []string
	NewExistingStatus          string
}

// BindRequest binds an authorizing user and their accounts to an authorization
type BindRequest struct {
	ConsentID        string
	AuthID           string
	UserID           string
	Accounts         models.AccountsWithPermissions
	NewAuthStatus    string
	NewConsentStatus string
}

// RevokeRequest revokes one consent
type RevokeRequest struct {
	ConsentID     string
	RevokedStatus string
	// UserID, when set, must be bound to one of the consent's authorizations
	UserID             string
	Reason             string
	ShouldRevokeTokens bool
}

// BulkRevokeRequest revokes every consent of a client, user and type in one status
type BulkRevokeRequest struct {
	ClientID           string
	UserID             string
	ConsentType        string
	ApplicableStatus   string
	RevokedStatus      string
	ShouldRevokeTokens bool
}

// ReauthorizeRequest rebinds accounts on an existing authorization
type ReauthorizeRequest struct {
	ConsentID     string
	AuthID        string
	UserID        string
	Accounts      models.AccountsWithPermissions
	CurrentStatus string
	NewStatus     string
}

// ReauthorizeWithNewAuthRequest supersedes the user's authorizations with a new one
type ReauthorizeWithNewAuthRequest struct {
	ConsentID             string
	UserID                string
	Accounts              models.AccountsWithPermissions
	CurrentStatus         string
	NewStatus             string
	NewExistingAuthStatus string
	NewAuthStatus         string
	NewAuthType           string
}

// AmendRequest changes an existing consent. Nil and empty fields are left untouched.
type AmendRequest struct {
	ConsentID      string
	Receipt        *string
	ValidityPeriod *int64
	// AuthID selects the authorization whose accounts are replaced by Accounts
	AuthID     string
	Accounts   models.AccountsWithPermissions
	NewStatus  string
	Attributes map[string]string
	UserID     string
	Reason     string
	// NewAuthorizations are created and bound as part of the amendment
	NewAuthorizations []NewAuthorization
}

// NewAuthorization is an authorization created during an amendment
type NewAuthorization struct {
	UserID     string
	AuthType   string
	AuthStatus string
	Accounts   models.AccountsWithPermissions
}

// StoreConsentFileRequest uploads the file of a file based consent
type StoreConsentFileRequest struct {
	ConsentID string
	File      []byte
	// ApplicableStatus is the status the consent must be in to accept the file
	ApplicableStatus string
	NewStatus        string
	UserID           string
}
