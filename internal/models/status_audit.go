package models

// ConsentStatusAuditRecord represents the OB_CONSENT_STATUS_AUDIT table.
// Records are append only.
type ConsentStatusAuditRecord struct {
	StatusAuditID  string `db:"STATUS_AUDIT_ID" json:"statusAuditId"`
	ConsentID      string `db:"CONSENT_ID" json:"consentId"`
	CurrentStatus  string `db:"CURRENT_STATUS" json:"currentStatus"`
	ActionTime     int64  `db:"ACTION_TIME" json:"actionTime"`
	Reason         string `db:"REASON" json:"reason"`
	ActionBy       string `db:"ACTION_BY" json:"actionBy"`
	PreviousStatus string `db:"PREVIOUS_STATUS" json:"previousStatus"`
}

// AuditSearchFilter holds the optional, conjunctive audit search filters
type AuditSearchFilter struct {
	ConsentIDs []string
	Status     string
	ActionBy   string
	FromTime   *int64
	ToTime     *int64
	AuditID    string
	Limit      int
	Offset     int
}
