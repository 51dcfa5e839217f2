package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// AmendDetailedConsent applies an amendment in one transaction. When the consent
// was in the active status beforehand, the pre-amendment values of everything
// that changed are stored as one history record.
func (s *ConsentLifecycle) AmendDetailedConsent(ctx context.Context, req AmendRequest) (*models.DetailedConsentResource, error) {
	if err := s.validateAmend(&req); err != nil {
		return nil, err
	}
	reason := req.Reason
	if reason == "" {
		reason = models.ReasonAmend
	}

	var amended *models.DetailedConsentResource
	var recorded bool
	err := s.runInTx(ctx, "amend_consent", func(tx *database.Transaction, scope *txScope) error {
		before, err := s.store.GetDetailedConsent(ctx, tx, req.ConsentID, true)
		if err != nil {
			return err
		}

		fields := before.ConsentResource
		if req.Receipt != nil {
			fields.Receipt = *req.Receipt
		}
		if req.ValidityPeriod != nil {
			fields.ValidityPeriod = *req.ValidityPeriod
		}
		fields.UpdatedTime = utils.GetCurrentTimeSeconds()
		if err := s.store.Consents.UpdateAmendableFields(ctx, tx, &fields); err != nil {
			return err
		}

		if req.NewStatus != "" && req.NewStatus != before.CurrentStatus {
			if err := s.transition(ctx, tx, scope, req.ConsentID, before.CurrentStatus, req.NewStatus, reason, req.UserID); err != nil {
				return err
			}
		}

		if req.AuthID != "" {
			if _, ok := before.Authorization(req.AuthID); !ok {
				return serviceerror.NotFound("authorization %s does not belong to consent %s", req.AuthID, req.ConsentID)
			}
			result, err := s.binder.Bind(ctx, tx, req.AuthID, req.Accounts, true)
			if err != nil {
				return err
			}
			scope.bound(result)
		}

		if len(req.Attributes) > 0 {
			if err := s.store.Attributes.Upsert(ctx, tx, req.ConsentID, req.Attributes); err != nil {
				return err
			}
		}

		for _, na := range req.NewAuthorizations {
			userID := na.UserID
			auth := &models.AuthorizationResource{
				AuthorizationID:     utils.GenerateAuthID(),
				ConsentID:           req.ConsentID,
				UserID:              &userID,
				AuthorizationType:   na.AuthType,
				AuthorizationStatus: na.AuthStatus,
				UpdatedTime:         fields.UpdatedTime,
			}
			if err := s.store.AuthResources.Create(ctx, tx, auth); err != nil {
				return err
			}
			result, err := s.binder.Bind(ctx, tx, auth.AuthorizationID, na.Accounts, s.isApproval(na.AuthStatus, ""))
			if err != nil {
				return err
			}
			scope.bound(result)
		}

		amended, err = s.store.GetDetailedConsent(ctx, tx, req.ConsentID, false)
		if err != nil {
			return err
		}

		if before.CurrentStatus != s.config.StatusMappings.ActiveStatus {
			return nil
		}
		changes := Diff(before, amended)
		if changes.IsEmpty() {
			return nil
		}
		recorded = true
		return s.history.Record(ctx, tx, &models.ConsentHistoryResource{
			ConsentID:         req.ConsentID,
			Timestamp:         utils.NextTimestampMillis(),
			Reason:            reason,
			ActionBy:          req.UserID,
			ChangedAttributes: changes,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id":       req.ConsentID,
		"history_recorded": recorded,
	}).Info("Consent amended")
	return amended, nil
}

func (s *ConsentLifecycle) validateAmend(req *AmendRequest) error {
	if err := utils.ValidateConsentID(req.ConsentID); err != nil {
		return validationError(err)
	}
	if err := requireFields([2]string{"userID", req.UserID}); err != nil {
		return err
	}
	if req.Receipt == nil && req.ValidityPeriod == nil && req.AuthID == "" && req.NewStatus == "" &&
		len(req.Attributes) == 0 && len(req.NewAuthorizations) == 0 {
		return serviceerror.Validation("amendment does not change anything")
	}
	if req.ValidityPeriod != nil && *req.ValidityPeriod < 0 {
		return serviceerror.Validation("validity period must not be negative")
	}
	if req.AuthID != "" && len(req.Accounts) == 0 {
		return serviceerror.Validation("accounts are required when amending authorization %s", req.AuthID)
	}
	if req.NewStatus != "" {
		if err := validateStatuses(req.NewStatus); err != nil {
			return err
		}
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", req.UserID}, [2]string{"reason", req.Reason}); err != nil {
		return err
	}
	if err := utils.ValidateAttributes(req.Attributes); err != nil {
		return validationError(err)
	}
	for _, na := range req.NewAuthorizations {
		if err := requireFields(
			[2]string{"newAuthorization.userID", na.UserID},
			[2]string{"newAuthorization.authType", na.AuthType},
			[2]string{"newAuthorization.authStatus", na.AuthStatus},
		); err != nil {
			return err
		}
		if err := fitColumns(utils.MaxIdentifierLength,
			[2]string{"newAuthorization.userID", na.UserID},
			[2]string{"newAuthorization.authType", na.AuthType},
			[2]string{"newAuthorization.authStatus", na.AuthStatus},
		); err != nil {
			return err
		}
	}
	return nil
}

// StoreConsentAmendmentHistory stores a caller-computed history record for an existing consent
func (s *ConsentLifecycle) StoreConsentAmendmentHistory(ctx context.Context, entry models.ConsentHistoryResource) (*models.ConsentHistoryResource, error) {
	if err := utils.ValidateConsentID(entry.ConsentID); err != nil {
		return nil, validationError(err)
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"reason", entry.Reason}, [2]string{"actionBy", entry.ActionBy}); err != nil {
		return nil, err
	}
	err := s.runInTx(ctx, "store_amendment_history", func(tx *database.Transaction, scope *txScope) error {
		if _, err := s.store.Consents.GetByID(ctx, tx, entry.ConsentID); err != nil {
			return err
		}
		return s.history.Record(ctx, tx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetConsentAmendmentHistoryData returns the amendment history of a consent, oldest first
func (s *ConsentLifecycle) GetConsentAmendmentHistoryData(ctx context.Context, consentID string) ([]models.ConsentHistoryResource, error) {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, validationError(err)
	}
	var entries []models.ConsentHistoryResource
	err := s.read(ctx, "get_amendment_history", func() error {
		var err error
		entries, err = s.history.Reconstruct(ctx, consentID)
		return err
	})
	return entries, err
}

// StoreConsentAttributes adds or replaces attributes of a consent by key
func (s *ConsentLifecycle) StoreConsentAttributes(ctx context.Context, consentID string, attributes map[string]string) error {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return validationError(err)
	}
	if len(attributes) == 0 {
		return serviceerror.Validation("at least one attribute is required")
	}
	if err := utils.ValidateAttributes(attributes); err != nil {
		return validationError(err)
	}
	return s.runInTx(ctx, "store_consent_attributes", func(tx *database.Transaction, scope *txScope) error {
		if _, err := s.store.Consents.GetByIDForUpdate(ctx, tx, consentID); err != nil {
			return err
		}
		return s.store.Attributes.Upsert(ctx, tx, consentID, attributes)
	})
}

// GetConsentAttributes returns the requested attributes of a consent, or all of them when keys is empty
func (s *ConsentLifecycle) GetConsentAttributes(ctx context.Context, consentID string, keys []string) (map[string]string, error) {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, validationError(err)
	}
	var attributes map[string]string
	err := s.read(ctx, "get_consent_attributes", func() error {
		if _, err := s.store.Consents.GetByID(ctx, nil, consentID); err != nil {
			return err
		}
		var err error
		attributes, err = s.store.Attributes.GetByConsentID(ctx, nil, consentID, keys)
		return err
	})
	return attributes, err
}

// GetConsentAttributesByName returns the value of one attribute key for every consent carrying it
func (s *ConsentLifecycle) GetConsentAttributesByName(ctx context.Context, key string) (map[string]string, error) {
	if err := requireFields([2]string{"attributeKey", key}); err != nil {
		return nil, err
	}
	var values map[string]string
	err := s.read(ctx, "get_consent_attributes_by_name", func() error {
		var err error
		values, err = s.store.Attributes.GetByKey(ctx, nil, key)
		return err
	})
	return values, err
}

// GetConsentIDsByAttribute returns the consents whose attribute key holds value
func (s *ConsentLifecycle) GetConsentIDsByAttribute(ctx context.Context, key, value string) ([]string, error) {
	if err := requireFields([2]string{"attributeKey", key}, [2]string{"attributeValue", value}); err != nil {
		return nil, err
	}
	var ids []string
	err := s.read(ctx, "get_consent_ids_by_attribute", func() error {
		var err error
		ids, err = s.store.Attributes.GetConsentIDsByKeyValue(ctx, nil, key, value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nonNilStrings(ids), nil
}

// DeleteConsentAttributes removes the given attribute keys from a consent
func (s *ConsentLifecycle) DeleteConsentAttributes(ctx context.Context, consentID string, keys []string) error {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return validationError(err)
	}
	if len(keys) == 0 {
		return serviceerror.Validation("at least one attribute key is required")
	}
	return s.runInTx(ctx, "delete_consent_attributes", func(tx *database.Transaction, scope *txScope) error {
		if _, err := s.store.Consents.GetByIDForUpdate(ctx, tx, consentID); err != nil {
			return err
		}
		return s.store.Attributes.DeleteKeys(ctx, tx, consentID, keys)
	})
}

// SearchConsentStatusAuditRecords searches the status ledger. Without filters
// the whole ledger is returned, bounded by the caller's limit.
func (s *ConsentLifecycle) SearchConsentStatusAuditRecords(ctx context.Context, filter models.AuditSearchFilter) ([]models.ConsentStatusAuditRecord, error) {
	var records []models.ConsentStatusAuditRecord
	err := s.read(ctx, "search_status_audit", func() error {
		var err error
		records, err = s.audit.Search(ctx, filter)
		return err
	})
	return records, err
}

// GetConsentStatusAuditRecords returns the audit records of the given consents, oldest first
func (s *ConsentLifecycle) GetConsentStatusAuditRecords(ctx context.Context, consentIDs []string, limit, offset int) ([]models.ConsentStatusAuditRecord, error) {
	if len(consentIDs) == 0 {
		return nil, serviceerror.Validation("at least one consent ID is required")
	}
	return s.SearchConsentStatusAuditRecords(ctx, models.AuditSearchFilter{
		ConsentIDs: consentIDs,
		Limit:      limit,
		Offset:     offset,
	})
}
