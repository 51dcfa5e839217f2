package models

// ConsentResource represents the OB_CONSENT table
type ConsentResource struct {
	ConsentID          string `db:"CONSENT_ID" json:"consentId"`
	ClientID           string `db:"CLIENT_ID" json:"clientId"`
	OrgID              string `db:"ORG_ID" json:"orgId"`
	Receipt            string `db:"RECEIPT" json:"receipt"`
	ConsentType        string `db:"CONSENT_TYPE" json:"consentType"`
	CurrentStatus      string `db:"CURRENT_STATUS" json:"currentStatus"`
	ConsentFrequency   int    `db:"CONSENT_FREQUENCY" json:"consentFrequency"`
	ValidityPeriod     int64  `db:"VALIDITY_TIME" json:"validityPeriod"`
	RecurringIndicator bool   `db:"RECURRING_INDICATOR" json:"recurringIndicator"`
	CreatedTime        int64  `db:"CREATED_TIME" json:"createdTime"`
	UpdatedTime        int64  `db:"UPDATED_TIME" json:"updatedTime"`
}
