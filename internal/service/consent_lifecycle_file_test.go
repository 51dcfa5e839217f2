package service

import (
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
)

func (s *ConsentLifecycleTestSuite) storeFile(consentID string, file []byte) error {
	_, err := s.lifecycle.StoreConsentFile(s.ctx, StoreConsentFileRequest{
		ConsentID:        consentID,
		File:             file,
		ApplicableStatus: statusCreated,
		NewStatus:        statusAuthorized,
		UserID:           "user-1",
	})
	return err
}

func (s *ConsentLifecycleTestSuite) TestStoreConsentFileMovesStatusAndAudits() {
	consent := s.createConsent("user-1", nil)
	file := []byte(`<Document><PmtInf>bulk</PmtInf></Document>`)

	s.Require().NoError(s.storeFile(consent.ConsentID, file))

	stored, err := s.lifecycle.GetConsentFile(s.ctx, consent.ConsentID)
	s.Require().NoError(err)
	s.Equal(file, stored.ConsentFile)
	s.Equal(statusAuthorized, s.get(consent.ConsentID).CurrentStatus)

	records, err := s.lifecycle.GetConsentStatusAuditRecords(s.ctx, []string{consent.ConsentID}, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	var upload *models.ConsentStatusAuditRecord
	for i := range records {
		if records[i].PreviousStatus == statusCreated {
			upload = &records[i]
		}
	}
	s.Require().NotNil(upload)
	s.Equal(models.ReasonConsentFileUpload, upload.Reason)
	s.Equal("user-1", upload.ActionBy)
}

func (s *ConsentLifecycleTestSuite) TestStoreConsentFileRequiresApplicableStatus() {
	consent := s.createConsent("user-1", nil)
	s.authorize(consent, "user-1", models.AccountsWithPermissions{"acc-1": {"read"}})

	err := s.storeFile(consent.ConsentID, []byte("file"))
	s.ErrorIs(err, serviceerror.ErrInvalidStateTransition)

	_, err = s.lifecycle.GetConsentFile(s.ctx, consent.ConsentID)
	s.ErrorIs(err, serviceerror.ErrNotFound)
	s.Len(s.audit(consent.ConsentID), 2)
}

func (s *ConsentLifecycleTestSuite) TestStoreConsentFileRejectsSecondUpload() {
	consent := s.createConsent("user-1", nil)
	_, err := s.lifecycle.StoreConsentFile(s.ctx, StoreConsentFileRequest{
		ConsentID:        consent.ConsentID,
		File:             []byte("first"),
		ApplicableStatus: statusCreated,
		NewStatus:        statusCreated,
	})
	s.Require().NoError(err)
	// staying in the same status writes no audit record
	s.Len(s.audit(consent.ConsentID), 1)

	err = s.storeFile(consent.ConsentID, []byte("second"))
	s.ErrorIs(err, serviceerror.ErrInvalidStateTransition)

	stored, err := s.lifecycle.GetConsentFile(s.ctx, consent.ConsentID)
	s.Require().NoError(err)
	s.Equal([]byte("first"), stored.ConsentFile)
	s.Equal(statusCreated, s.get(consent.ConsentID).CurrentStatus)
}

func (s *ConsentLifecycleTestSuite) TestStoreConsentFileValidation() {
	consent := s.createConsent("user-1", nil)

	s.ErrorIs(s.storeFile(consent.ConsentID, nil), serviceerror.ErrValidation)
	s.ErrorIs(s.storeFile(consent.ConsentID, []byte(" \n\t")), serviceerror.ErrValidation)
	s.ErrorIs(s.storeFile("", []byte("file")), serviceerror.ErrValidation)

	_, err := s.lifecycle.StoreConsentFile(s.ctx, StoreConsentFileRequest{ConsentID: consent.ConsentID, File: []byte("file")})
	s.ErrorIs(err, serviceerror.ErrValidation)

	s.ErrorIs(s.storeFile("missing", []byte("file")), serviceerror.ErrNotFound)
	s.Equal(statusCreated, s.get(consent.ConsentID).CurrentStatus)
}

func (s *ConsentLifecycleTestSuite) TestPurgeRemovesConsentFile() {
	consent := s.createConsent("user-1", nil)
	s.Require().NoError(s.storeFile(consent.ConsentID, []byte("file")))

	purged, err := s.lifecycle.PurgeConsents(s.ctx, []string{consent.ConsentID})
	s.Require().NoError(err)
	s.Equal(int64(1), purged)

	_, err = s.lifecycle.GetConsentFile(s.ctx, consent.ConsentID)
	s.ErrorIs(err, serviceerror.ErrNotFound)
}
