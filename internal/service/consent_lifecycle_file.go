package service

import (
	"bytes"
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// StoreConsentFile stores the file of a file based consent and moves the consent
// from ApplicableStatus to NewStatus. A consent holds at most one file.
func (s *ConsentLifecycle) StoreConsentFile(ctx context.Context, req StoreConsentFileRequest) (bool, error) {
	if err := requireFields(
		[2]string{"consentID", req.ConsentID},
		[2]string{"newStatus", req.NewStatus},
		[2]string{"applicableStatus", req.ApplicableStatus},
	); err != nil {
		return false, err
	}
	if len(bytes.TrimSpace(req.File)) == 0 {
		return false, serviceerror.Validation("consent file is required")
	}
	if err := validateStatuses(req.NewStatus); err != nil {
		return false, err
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", req.UserID}); err != nil {
		return false, err
	}

	err := s.runInTx(ctx, "store_consent_file", func(tx *database.Transaction, scope *txScope) error {
		consent, err := s.lockInStatus(ctx, tx, req.ConsentID, req.ApplicableStatus)
		if err != nil {
			return err
		}
		exists, err := s.store.Files.Exists(ctx, tx, req.ConsentID)
		if err != nil {
			return err
		}
		if exists {
			return serviceerror.InvalidStateTransition("consent %s already has a file", req.ConsentID)
		}

		if err := s.store.Files.Create(ctx, tx, &models.ConsentFile{ConsentID: req.ConsentID, ConsentFile: req.File}); err != nil {
			return err
		}
		return s.transition(ctx, tx, scope, consent.ConsentID, consent.CurrentStatus, req.NewStatus,
			models.ReasonConsentFileUpload, req.UserID)
	})
	if err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id": req.ConsentID,
		"file_size":  len(req.File),
		"status":     req.NewStatus,
	}).Info("Consent file stored")
	return true, nil
}

// GetConsentFile returns the stored file of a consent
func (s *ConsentLifecycle) GetConsentFile(ctx context.Context, consentID string) (*models.ConsentFile, error) {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, validationError(err)
	}
	var file *models.ConsentFile
	err := s.read(ctx, "get_consent_file", func() error {
		var err error
		file, err = s.store.Files.GetByConsentID(ctx, nil, consentID)
		return err
	})
	return file, err
}
