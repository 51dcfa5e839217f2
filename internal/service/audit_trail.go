package service

import (
	"context"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// StatusAuditStore persists and queries status audit records
type StatusAuditStore interface {
	Create(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAuditRecord) error
	Search(ctx context.Context, tx *database.Transaction, filter models.AuditSearchFilter) ([]models.ConsentStatusAuditRecord, error)
}

// AuditTrail writes the append-only status ledger. Records are only ever
// appended inside the transaction that performs the transition.
type AuditTrail struct {
	store StatusAuditStore
}

// NewAuditTrail creates an AuditTrail over store
func NewAuditTrail(store StatusAuditStore) *AuditTrail {
	return &AuditTrail{store: store}
}

// Append records one status transition. previousStatus is empty for a creation.
func (a *AuditTrail) Append(ctx context.Context, tx *database.Transaction, consentID, previousStatus, currentStatus, reason, actionBy string) (*models.ConsentStatusAuditRecord, error) {
	if consentID == "" {
		return nil, serviceerror.Validation("consent ID is required for a status audit record")
	}
	if currentStatus == "" {
		return nil, serviceerror.Validation("current status is required for a status audit record")
	}

	record := &models.ConsentStatusAuditRecord{
		StatusAuditID:  utils.GenerateAuditID(),
		ConsentID:      consentID,
		CurrentStatus:  currentStatus,
		ActionTime:     utils.NextTimestampMillis(),
		Reason:         reason,
		ActionBy:       actionBy,
		PreviousStatus: previousStatus,
	}
	if err := a.store.Create(ctx, tx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Search returns records matching every supplied filter, oldest first
func (a *AuditTrail) Search(ctx context.Context, filter models.AuditSearchFilter) ([]models.ConsentStatusAuditRecord, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, serviceerror.Validation("limit and offset must not be negative")
	}
	if filter.FromTime != nil && filter.ToTime != nil && *filter.FromTime > *filter.ToTime {
		return nil, serviceerror.Validation("fromTime must not be after toTime")
	}
	records, err := a.store.Search(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.ConsentStatusAuditRecord{}
	}
	return records, nil
}
