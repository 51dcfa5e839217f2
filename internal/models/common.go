package models

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// DefaultOrgID is used when a consent is created without an organization
const DefaultOrgID = "DEFAULT_ORG"

// Audit reasons written by lifecycle operations when the caller supplies none
const (
	ReasonCreate                 = "create consent"
	ReasonExclusiveAuthorization = "exclusive authorization"
	ReasonStatusUpdate           = "consent status update"
	ReasonUserAccountsBinding    = "user accounts binding"
	ReasonRevoke                 = "revoke consent"
	ReasonReauthorize            = "re-authorize consent"
	ReasonAmend                  = "amend consent"
	ReasonAuthorizationUpdate    = "authorization status update"
	ReasonConsentFileUpload      = "upload consent file"
)
