package models

// ConsentFile represents the OB_CONSENT_FILE table. File based consents (bulk
// payment files) keep the uploaded document as is; one file per consent.
type ConsentFile struct {
	ConsentID   string `db:"CONSENT_ID" json:"consentId"`
	ConsentFile []byte `db:"CONSENT_FILE" json:"-"`
}

// ConsentFileResponse describes a stored consent file without its content
type ConsentFileResponse struct {
	ConsentID string `json:"consentId"`
	FileSize  int    `json:"fileSize"`
}
