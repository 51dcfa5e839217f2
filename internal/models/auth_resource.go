package models

// AuthorizationResource represents the OB_CONSENT_AUTH_RESOURCE table
type AuthorizationResource struct {
	AuthorizationID     string  `db:"AUTH_ID" json:"authorizationId"`
	ConsentID           string  `db:"CONSENT_ID" json:"consentId"`
	UserID              *string `db:"USER_ID" json:"userId,omitempty"`
	AuthorizationType   string  `db:"AUTH_TYPE" json:"authorizationType"`
	AuthorizationStatus string  `db:"AUTH_STATUS" json:"authorizationStatus"`
	UpdatedTime         int64   `db:"UPDATED_TIME" json:"updatedTime"`
}

// GetUserID returns the bound user or an empty string while unbound
func (a *AuthorizationResource) GetUserID() string {
	if a.UserID == nil {
		return ""
	}
	return *a.UserID
}
