package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ChangeSetVersion is the version tag written into every persisted diff document
const ChangeSetVersion = "v1"

// Diff segment names. These are part of the persisted document and must not change.
const (
	SegmentConsentData             = "ConsentData"
	SegmentConsentAttributesData   = "ConsentAttributesData"
	SegmentConsentAuthResourceData = "ConsentAuthResourceData"
	SegmentConsentMappingData      = "ConsentMappingData"
)

// Field names recorded in diff segments
const (
	FieldReceipt             = "receipt"
	FieldValidityPeriod      = "validityPeriod"
	FieldCurrentStatus       = "currentStatus"
	FieldConsentFrequency    = "consentFrequency"
	FieldRecurringIndicator  = "recurringIndicator"
	FieldAttributeValue      = "value"
	FieldAuthorizationStatus = "authorizationStatus"
	FieldAuthorizationType   = "authorizationType"
	FieldUserID              = "userId"
	FieldMappingStatus       = "mappingStatus"
)

// FieldValues holds pre-amendment field values of one entity.
// A nil FieldValues marks an entity created by the amendment.
type FieldValues map[string]string

// ChangeSet is the attribute-level diff of one amendment, segmented by entity class
// and keyed by entity ID. Attribute entities are keyed by attribute key.
type ChangeSet struct {
	Version                 string                 `json:"version"`
	ConsentData             map[string]FieldValues `json:"ConsentData,omitempty"`
	ConsentAttributesData   map[string]FieldValues `json:"ConsentAttributesData,omitempty"`
	ConsentAuthResourceData map[string]FieldValues `json:"ConsentAuthResourceData,omitempty"`
	ConsentMappingData      map[string]FieldValues `json:"ConsentMappingData,omitempty"`
}

// NewChangeSet returns an empty versioned change set
func NewChangeSet() ChangeSet {
	return ChangeSet{Version: ChangeSetVersion}
}

// IsEmpty reports whether no entity changed
func (c ChangeSet) IsEmpty() bool {
	return len(c.ConsentData) == 0 &&
		len(c.ConsentAttributesData) == 0 &&
		len(c.ConsentAuthResourceData) == 0 &&
		len(c.ConsentMappingData) == 0
}

// Segment returns the named segment, or nil for an unknown name
func (c ChangeSet) Segment(name string) map[string]FieldValues {
	switch name {
	case SegmentConsentData:
		return c.ConsentData
	case SegmentConsentAttributesData:
		return c.ConsentAttributesData
	case SegmentConsentAuthResourceData:
		return c.ConsentAuthResourceData
	case SegmentConsentMappingData:
		return c.ConsentMappingData
	default:
		return nil
	}
}

// Scan implements the sql.Scanner interface
func (c *ChangeSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = NewChangeSet()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for change set: %T", value)
	}

	var decoded ChangeSet
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("invalid change set document: %w", err)
	}
	*c = decoded
	return nil
}

// Value implements the driver.Valuer interface
func (c ChangeSet) Value() (driver.Value, error) {
	if c.Version == "" {
		c.Version = ChangeSetVersion
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change set: %w", err)
	}
	return string(raw), nil
}

// ConsentHistoryResource represents the OB_CONSENT_HISTORY table
type ConsentHistoryResource struct {
	HistoryID         string    `db:"HISTORY_ID" json:"historyId"`
	ConsentID         string    `db:"CONSENT_ID" json:"consentId"`
	Timestamp         int64     `db:"EFFECTIVE_TIMESTAMP" json:"timestamp"`
	Reason            string    `db:"REASON" json:"reason"`
	ActionBy          string    `db:"ACTION_BY" json:"actionBy"`
	ChangedAttributes ChangeSet `db:"CHANGED_VALUES" json:"changedAttributes"`
}
