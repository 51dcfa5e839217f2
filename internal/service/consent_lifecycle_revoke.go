package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// RevokeConsent moves a consent to the revoked status and deactivates all of its
// mappings. Revoking an already revoked or expired consent fails without writing
// an audit record.
func (s *ConsentLifecycle) RevokeConsent(ctx context.Context, req RevokeRequest) (bool, error) {
	if err := requireFields(
		[2]string{"consentID", req.ConsentID},
		[2]string{"revokedStatus", req.RevokedStatus},
	); err != nil {
		return false, err
	}
	if err := validateStatuses(req.RevokedStatus); err != nil {
		return false, err
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", req.UserID}, [2]string{"reason", req.Reason}); err != nil {
		return false, err
	}
	reason := req.Reason
	if reason == "" {
		reason = models.ReasonRevoke
	}

	err := s.runInTx(ctx, "revoke_consent", func(tx *database.Transaction, scope *txScope) error {
		detailed, err := s.store.GetDetailedConsent(ctx, tx, req.ConsentID, true)
		if err != nil {
			return err
		}
		if err := s.checkRevocable(&detailed.ConsentResource, req.RevokedStatus); err != nil {
			return err
		}
		if req.UserID != "" && len(detailed.AuthorizationsForUser(req.UserID)) == 0 {
			return serviceerror.Validation("user %s is not bound to consent %s", req.UserID, req.ConsentID)
		}

		if err := s.revokeLocked(ctx, tx, scope, detailed, req.RevokedStatus, reason, req.UserID); err != nil {
			return err
		}
		if req.ShouldRevokeTokens {
			s.queueTokenRevocation(scope, detailed, req.UserID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id": req.ConsentID,
		"status":     req.RevokedStatus,
	}).Info("Consent revoked")
	return true, nil
}

// RevokeExistingApplicableConsents revokes every consent of the client, user and
// type currently in applicableStatus, in one transaction
func (s *ConsentLifecycle) RevokeExistingApplicableConsents(ctx context.Context, req BulkRevokeRequest) (bool, error) {
	if err := requireFields(
		[2]string{"clientID", req.ClientID},
		[2]string{"userID", req.UserID},
		[2]string{"consentType", req.ConsentType},
		[2]string{"applicableStatus", req.ApplicableStatus},
		[2]string{"revokedStatus", req.RevokedStatus},
	); err != nil {
		return false, err
	}
	if err := validateStatuses(req.RevokedStatus); err != nil {
		return false, err
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", req.UserID}); err != nil {
		return false, err
	}
	if req.ApplicableStatus == req.RevokedStatus {
		return false, serviceerror.Validation("applicable status must differ from the revoked status")
	}

	var revoked int
	err := s.runInTx(ctx, "revoke_existing_applicable_consents", func(tx *database.Transaction, scope *txScope) error {
		matches, _, err := s.store.Consents.Search(ctx, tx, models.ConsentSearchFilter{
			ClientIDs:       []string{req.ClientID},
			ConsentTypes:    []string{req.ConsentType},
			ConsentStatuses: []string{req.ApplicableStatus},
			UserIDs:         []string{req.UserID},
		})
		if err != nil {
			return err
		}

		for _, c := range matches {
			detailed, err := s.store.GetDetailedConsent(ctx, tx, c.ConsentID, true)
			if err != nil {
				return err
			}
			if detailed.CurrentStatus != req.ApplicableStatus {
				continue
			}
			if err := s.revokeLocked(ctx, tx, scope, detailed, req.RevokedStatus, models.ReasonRevoke, req.UserID); err != nil {
				return err
			}
			if req.ShouldRevokeTokens {
				s.queueTokenRevocation(scope, detailed, req.UserID)
			}
			revoked++
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"client_id": req.ClientID,
		"revoked":   revoked,
	}).Info("Existing applicable consents revoked")
	return true, nil
}

func (s *ConsentLifecycle) checkRevocable(consent *models.ConsentResource, revokedStatus string) error {
	if consent.CurrentStatus == revokedStatus || s.config.IsTerminalStatus(consent.CurrentStatus) {
		return serviceerror.InvalidStateTransition("%s can no longer be revoked", describeConsent(consent))
	}
	return nil
}

func (s *ConsentLifecycle) revokeLocked(ctx context.Context, tx *database.Transaction, scope *txScope, detailed *models.DetailedConsentResource, revokedStatus, reason, actionBy string) error {
	if err := s.transition(ctx, tx, scope, detailed.ConsentID, detailed.CurrentStatus, revokedStatus, reason, actionBy); err != nil {
		return err
	}
	n, err := s.binder.Deactivate(ctx, tx, detailed.AuthorizationIDs())
	if err != nil {
		return err
	}
	scope.mappingsDeactivated += n
	return nil
}

// queueTokenRevocation revokes tokens once the transaction has committed
func (s *ConsentLifecycle) queueTokenRevocation(scope *txScope, detailed *models.DetailedConsentResource, userID string) {
	if s.revoker == nil || !s.config.RevokeTokens {
		return
	}
	scope.afterCommit = append(scope.afterCommit, func(ctx context.Context) {
		if err := s.revoker.RevokeTokens(ctx, detailed, userID); err != nil {
			s.logger.WithError(err).WithField("consent_id", detailed.ConsentID).
				Error("Failed to revoke tokens for revoked consent")
		}
	})
}
