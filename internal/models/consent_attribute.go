package models

// ConsentAttribute represents one row of the OB_CONSENT_ATTRIBUTE table
type ConsentAttribute struct {
	ConsentID string `db:"CONSENT_ID" json:"consentId"`
	Key       string `db:"ATT_KEY" json:"key"`
	Value     string `db:"ATT_VALUE" json:"value"`
}
