package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// BindUserAccountsToConsent binds the authorizing user and their accounts to an
// authorization and moves both the authorization and the consent to their new statuses.
// A rejection with no accounts records the n/a binding.
func (s *ConsentLifecycle) BindUserAccountsToConsent(ctx context.Context, req BindRequest) (bool, error) {
	if err := requireFields(
		[2]string{"consentID", req.ConsentID},
		[2]string{"authID", req.AuthID},
		[2]string{"userID", req.UserID},
		[2]string{"newAuthStatus", req.NewAuthStatus},
		[2]string{"newConsentStatus", req.NewConsentStatus},
	); err != nil {
		return false, err
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", req.UserID}, [2]string{"newAuthStatus", req.NewAuthStatus}); err != nil {
		return false, err
	}
	if err := validateStatuses(req.NewConsentStatus); err != nil {
		return false, err
	}
	approved := s.isApproval(req.NewAuthStatus, req.NewConsentStatus)

	err := s.runInTx(ctx, "bind_user_accounts", func(tx *database.Transaction, scope *txScope) error {
		consent, err := s.store.Consents.GetByIDForUpdate(ctx, tx, req.ConsentID)
		if err != nil {
			return err
		}
		auth, err := s.authorizationOf(ctx, tx, req.ConsentID, req.AuthID)
		if err != nil {
			return err
		}

		result, err := s.binder.Bind(ctx, tx, auth.AuthorizationID, req.Accounts, approved)
		if err != nil {
			return err
		}
		scope.bound(result)

		now := utils.GetCurrentTimeSeconds()
		if err := s.store.AuthResources.UpdateUser(ctx, tx, auth.AuthorizationID, req.UserID, now); err != nil {
			return err
		}
		if err := s.store.AuthResources.UpdateStatus(ctx, tx, auth.AuthorizationID, auth.AuthorizationStatus, req.NewAuthStatus, now); err != nil {
			return err
		}
		return s.transition(ctx, tx, scope, consent.ConsentID, consent.CurrentStatus, req.NewConsentStatus,
			models.ReasonUserAccountsBinding, req.UserID)
	})
	if err != nil {
		return false, err
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id": req.ConsentID,
		"auth_id":    req.AuthID,
		"approved":   approved,
	}).Info("User accounts bound to consent")
	return true, nil
}

// BindUserAccountIDsToConsent binds plain account IDs, each with the n/a permission
func (s *ConsentLifecycle) BindUserAccountIDsToConsent(ctx context.Context, consentID, authID, userID string, accountIDs []string, newAuthStatus, newConsentStatus string) (bool, error) {
	return s.BindUserAccountsToConsent(ctx, BindRequest{
		ConsentID:        consentID,
		AuthID:           authID,
		UserID:           userID,
		Accounts:         models.AccountsWithoutPermissions(accountIDs),
		NewAuthStatus:    newAuthStatus,
		NewConsentStatus: newConsentStatus,
	})
}

// ReAuthorizeExistingAuthResource rebinds accounts on an existing authorization.
// The consent must still be in CurrentStatus.
func (s *ConsentLifecycle) ReAuthorizeExistingAuthResource(ctx context.Context, req ReauthorizeRequest) (bool, error) {
	if err := requireFields(
		[2]string{"consentID", req.ConsentID},
		[2]string{"authID", req.AuthID},
		[2]string{"userID", req.UserID},
		[2]string{"currentStatus", req.CurrentStatus},
		[2]string{"newStatus", req.NewStatus},
	); err != nil {
		return false, err
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", req.UserID}); err != nil {
		return false, err
	}
	if err := validateStatuses(req.NewStatus); err != nil {
		return false, err
	}

	err := s.runInTx(ctx, "reauthorize_existing_auth", func(tx *database.Transaction, scope *txScope) error {
		consent, err := s.lockInStatus(ctx, tx, req.ConsentID, req.CurrentStatus)
		if err != nil {
			return err
		}
		auth, err := s.authorizationOf(ctx, tx, req.ConsentID, req.AuthID)
		if err != nil {
			return err
		}
		if uid := auth.GetUserID(); uid != "" && uid != req.UserID {
			return serviceerror.Validation("authorization %s is bound to a different user", req.AuthID)
		}

		result, err := s.binder.Bind(ctx, tx, auth.AuthorizationID, req.Accounts, s.isApproval("", req.NewStatus))
		if err != nil {
			return err
		}
		scope.bound(result)

		return s.transition(ctx, tx, scope, consent.ConsentID, consent.CurrentStatus, req.NewStatus,
			models.ReasonReauthorize, req.UserID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReAuthorizeConsentWithNewAuthResource supersedes every authorization of the user
// with a new one bound to the given accounts. The consent must still be in CurrentStatus.
func (s *ConsentLifecycle) ReAuthorizeConsentWithNewAuthResource(ctx context.Context, req ReauthorizeWithNewAuthRequest) (bool, error) {
	if err := requireFields(
		[2]string{"consentID", req.ConsentID},
		[2]string{"userID", req.UserID},
		[2]string{"currentStatus", req.CurrentStatus},
		[2]string{"newStatus", req.NewStatus},
		[2]string{"newExistingAuthStatus", req.NewExistingAuthStatus},
		[2]string{"newAuthStatus", req.NewAuthStatus},
		[2]string{"newAuthType", req.NewAuthType},
	); err != nil {
		return false, err
	}
	if err := fitColumns(utils.MaxIdentifierLength,
		[2]string{"userID", req.UserID},
		[2]string{"newExistingAuthStatus", req.NewExistingAuthStatus},
		[2]string{"newAuthStatus", req.NewAuthStatus},
		[2]string{"newAuthType", req.NewAuthType},
	); err != nil {
		return false, err
	}
	if err := validateStatuses(req.NewStatus); err != nil {
		return false, err
	}

	err := s.runInTx(ctx, "reauthorize_with_new_auth", func(tx *database.Transaction, scope *txScope) error {
		if _, err := s.lockInStatus(ctx, tx, req.ConsentID, req.CurrentStatus); err != nil {
			return err
		}
		detailed, err := s.store.GetDetailedConsent(ctx, tx, req.ConsentID, false)
		if err != nil {
			return err
		}

		now := utils.GetCurrentTimeSeconds()
		var superseded []string
		for _, auth := range detailed.AuthorizationsForUser(req.UserID) {
			if err := s.store.AuthResources.UpdateStatus(ctx, tx, auth.AuthorizationID, auth.AuthorizationStatus, req.NewExistingAuthStatus, now); err != nil {
				return err
			}
			superseded = append(superseded, auth.AuthorizationID)
		}
		n, err := s.binder.Deactivate(ctx, tx, superseded)
		if err != nil {
			return err
		}
		scope.mappingsDeactivated += n

		userID := req.UserID
		auth := &models.AuthorizationResource{
			AuthorizationID:     utils.GenerateAuthID(),
			ConsentID:           req.ConsentID,
			UserID:              &userID,
			AuthorizationType:   req.NewAuthType,
			AuthorizationStatus: req.NewAuthStatus,
			UpdatedTime:         now,
		}
		if err := s.store.AuthResources.Create(ctx, tx, auth); err != nil {
			return err
		}
		result, err := s.binder.Bind(ctx, tx, auth.AuthorizationID, req.Accounts, s.isApproval(req.NewAuthStatus, req.NewStatus))
		if err != nil {
			return err
		}
		scope.bound(result)

		return s.transition(ctx, tx, scope, req.ConsentID, req.CurrentStatus, req.NewStatus,
			models.ReasonReauthorize, req.UserID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAuthorizationResource returns one authorization
func (s *ConsentLifecycle) GetAuthorizationResource(ctx context.Context, authID string) (*models.AuthorizationResource, error) {
	if err := requireFields([2]string{"authID", authID}); err != nil {
		return nil, err
	}
	var auth *models.AuthorizationResource
	err := s.read(ctx, "get_authorization", func() error {
		var err error
		auth, err = s.store.AuthResources.GetByID(ctx, nil, authID)
		return err
	})
	return auth, err
}

// SearchAuthorizations returns authorizations matching the filter
func (s *ConsentLifecycle) SearchAuthorizations(ctx context.Context, filter models.AuthorizationSearchFilter) ([]models.AuthorizationResource, error) {
	var auths []models.AuthorizationResource
	err := s.read(ctx, "search_authorizations", func() error {
		var err error
		auths, err = s.store.AuthResources.Search(ctx, nil, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	if auths == nil {
		auths = []models.AuthorizationResource{}
	}
	return auths, nil
}

// UpdateAuthorizationStatus changes the status of one authorization. The audit
// record keeps the consent status and names the authorization change in its reason.
func (s *ConsentLifecycle) UpdateAuthorizationStatus(ctx context.Context, authID, newStatus, actionBy string) (*models.AuthorizationResource, error) {
	if err := requireFields([2]string{"authID", authID}); err != nil {
		return nil, err
	}
	if err := utils.ValidateStatus(newStatus); err != nil {
		return nil, validationError(err)
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"actionBy", actionBy}); err != nil {
		return nil, err
	}

	var updated *models.AuthorizationResource
	err := s.runInTx(ctx, "update_authorization_status", func(tx *database.Transaction, scope *txScope) error {
		auth, err := s.store.AuthResources.GetByID(ctx, tx, authID)
		if err != nil {
			return err
		}
		consent, err := s.store.Consents.GetByIDForUpdate(ctx, tx, auth.ConsentID)
		if err != nil {
			return err
		}
		if err := s.store.AuthResources.UpdateStatus(ctx, tx, authID, auth.AuthorizationStatus, newStatus, utils.GetCurrentTimeSeconds()); err != nil {
			return err
		}
		reason := models.ReasonAuthorizationUpdate + " " + authID + ": " + auth.AuthorizationStatus + " -> " + newStatus
		if _, err := s.audit.Append(ctx, tx, consent.ConsentID, consent.CurrentStatus, consent.CurrentStatus, reason, actionBy); err != nil {
			return err
		}
		updated, err = s.store.AuthResources.GetByID(ctx, tx, authID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateAuthorizationUser binds a user to an authorization
func (s *ConsentLifecycle) UpdateAuthorizationUser(ctx context.Context, authID, userID string) error {
	if err := requireFields([2]string{"authID", authID}, [2]string{"userID", userID}); err != nil {
		return err
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"userID", userID}); err != nil {
		return err
	}
	return s.runInTx(ctx, "update_authorization_user", func(tx *database.Transaction, scope *txScope) error {
		auth, err := s.store.AuthResources.GetByID(ctx, tx, authID)
		if err != nil {
			return err
		}
		if _, err := s.store.Consents.GetByIDForUpdate(ctx, tx, auth.ConsentID); err != nil {
			return err
		}
		return s.store.AuthResources.UpdateUser(ctx, tx, authID, userID, utils.GetCurrentTimeSeconds())
	})
}

// lockInStatus locks a consent and checks it is still in the expected status
func (s *ConsentLifecycle) lockInStatus(ctx context.Context, tx *database.Transaction, consentID, expectedStatus string) (*models.ConsentResource, error) {
	consent, err := s.store.Consents.GetByIDForUpdate(ctx, tx, consentID)
	if err != nil {
		return nil, err
	}
	if consent.CurrentStatus != expectedStatus {
		return nil, serviceerror.InvalidStateTransition("%s is not in status %q", describeConsent(consent), expectedStatus)
	}
	return consent, nil
}

// authorizationOf loads an authorization and checks it belongs to the consent
func (s *ConsentLifecycle) authorizationOf(ctx context.Context, tx *database.Transaction, consentID, authID string) (*models.AuthorizationResource, error) {
	auth, err := s.store.AuthResources.GetByID(ctx, tx, authID)
	if err != nil {
		return nil, err
	}
	if auth.ConsentID != consentID {
		return nil, serviceerror.NotFound("authorization %s does not belong to consent %s", authID, consentID)
	}
	return auth, nil
}
