package service

import (
	"context"
	"strconv"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// HistoryStore persists amendment history records
type HistoryStore interface {
	Create(ctx context.Context, tx *database.Transaction, history *models.ConsentHistoryResource) error
	GetByConsentID(ctx context.Context, tx *database.Transaction, consentID string) ([]models.ConsentHistoryResource, error)
}

// AmendmentHistory records the pre-amendment values of authorized consents
type AmendmentHistory struct {
	store HistoryStore
}

// NewAmendmentHistory creates an AmendmentHistory over store
func NewAmendmentHistory(store HistoryStore) *AmendmentHistory {
	return &AmendmentHistory{store: store}
}

// Record stores one history entry. The history ID is generated when empty.
func (h *AmendmentHistory) Record(ctx context.Context, tx *database.Transaction, entry *models.ConsentHistoryResource) error {
	if entry.ConsentID == "" {
		return serviceerror.Validation("consent ID is required for amendment history")
	}
	if entry.Reason == "" {
		return serviceerror.Validation("amendment reason is required")
	}
	if entry.Timestamp <= 0 {
		return serviceerror.Validation("amendment timestamp is required")
	}
	if entry.HistoryID == "" {
		entry.HistoryID = utils.GenerateHistoryID()
	}
	if entry.ChangedAttributes.Version == "" {
		entry.ChangedAttributes.Version = models.ChangeSetVersion
	}
	return h.store.Create(ctx, tx, entry)
}

// Reconstruct returns the amendment history of a consent, oldest first
func (h *AmendmentHistory) Reconstruct(ctx context.Context, consentID string) ([]models.ConsentHistoryResource, error) {
	entries, err := h.store.GetByConsentID(ctx, nil, consentID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ConsentHistoryResource{}
	}
	return entries, nil
}

// Diff returns the pre-amendment values of every field that differs between
// before and after. Entities present only in after are recorded with nil values.
func Diff(before, after *models.DetailedConsentResource) models.ChangeSet {
	changes := models.NewChangeSet()

	if fields := diffConsent(&before.ConsentResource, &after.ConsentResource); len(fields) > 0 {
		changes.ConsentData = map[string]models.FieldValues{before.ConsentID: fields}
	}

	attributes := make(map[string]models.FieldValues)
	for key, value := range after.ConsentAttributes {
		old, existed := before.ConsentAttributes[key]
		switch {
		case !existed:
			attributes[key] = nil
		case old != value:
			attributes[key] = models.FieldValues{models.FieldAttributeValue: old}
		}
	}
	for key, old := range before.ConsentAttributes {
		if _, ok := after.ConsentAttributes[key]; !ok {
			attributes[key] = models.FieldValues{models.FieldAttributeValue: old}
		}
	}
	if len(attributes) > 0 {
		changes.ConsentAttributesData = attributes
	}

	auths := make(map[string]models.FieldValues)
	for i := range after.Authorizations {
		cur := &after.Authorizations[i]
		prev, ok := before.Authorization(cur.AuthorizationID)
		if !ok {
			auths[cur.AuthorizationID] = nil
			continue
		}
		if fields := diffAuthorization(prev, cur); len(fields) > 0 {
			auths[cur.AuthorizationID] = fields
		}
	}
	if len(auths) > 0 {
		changes.ConsentAuthResourceData = auths
	}

	previousMappings := make(map[string]models.ConsentMappingResource, len(before.Mappings))
	for _, m := range before.Mappings {
		previousMappings[m.MappingID] = m
	}
	mappings := make(map[string]models.FieldValues)
	for _, cur := range after.Mappings {
		prev, ok := previousMappings[cur.MappingID]
		switch {
		case !ok:
			mappings[cur.MappingID] = nil
		case prev.MappingStatus != cur.MappingStatus:
			mappings[cur.MappingID] = models.FieldValues{models.FieldMappingStatus: prev.MappingStatus}
		}
	}
	if len(mappings) > 0 {
		changes.ConsentMappingData = mappings
	}

	return changes
}

func diffConsent(before, after *models.ConsentResource) models.FieldValues {
	fields := models.FieldValues{}
	if before.Receipt != after.Receipt {
		fields[models.FieldReceipt] = before.Receipt
	}
	if before.ValidityPeriod != after.ValidityPeriod {
		fields[models.FieldValidityPeriod] = strconv.FormatInt(before.ValidityPeriod, 10)
	}
	if before.CurrentStatus != after.CurrentStatus {
		fields[models.FieldCurrentStatus] = before.CurrentStatus
	}
	if before.ConsentFrequency != after.ConsentFrequency {
		fields[models.FieldConsentFrequency] = strconv.Itoa(before.ConsentFrequency)
	}
	if before.RecurringIndicator != after.RecurringIndicator {
		fields[models.FieldRecurringIndicator] = strconv.FormatBool(before.RecurringIndicator)
	}
	return fields
}

func diffAuthorization(before, after *models.AuthorizationResource) models.FieldValues {
	fields := models.FieldValues{}
	if before.AuthorizationStatus != after.AuthorizationStatus {
		fields[models.FieldAuthorizationStatus] = before.AuthorizationStatus
	}
	if before.AuthorizationType != after.AuthorizationType {
		fields[models.FieldAuthorizationType] = before.AuthorizationType
	}
	if before.GetUserID() != after.GetUserID() {
		fields[models.FieldUserID] = before.GetUserID()
	}
	return fields
}
