package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/dao"
	"github.com/wso2/ob-consent-mgt/internal/database"
	"github.com/wso2/ob-consent-mgt/internal/metrics"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/pkg/utils"
)

// ConsentLifecycle orchestrates consent state changes. Each mutating operation
// runs in one transaction that locks the consent row before reading it, and
// appends exactly one status audit record per committed status change.
type ConsentLifecycle struct {
	store   *dao.ConsentStore
	binder  *AuthorizationBinder
	audit   *AuditTrail
	history *AmendmentHistory
	policy  TransitionPolicy
	revoker TokenRevoker
	config  config.ConsentConfig
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewConsentLifecycle wires the lifecycle over a consent store. policy is required;
// a nil revoker disables token revocation and nil metrics records nothing.
func NewConsentLifecycle(
	store *dao.ConsentStore,
	policy TransitionPolicy,
	revoker TokenRevoker,
	consentConfig config.ConsentConfig,
	m *metrics.Metrics,
	logger *logrus.Logger,
) (*ConsentLifecycle, error) {
	if store == nil {
		return nil, errors.New("consent store is required")
	}
	if policy == nil {
		return nil, errors.New("transition policy is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ConsentLifecycle{
		store:   store,
		binder:  NewAuthorizationBinder(store.Mappings),
		audit:   NewAuditTrail(store.StatusAudits),
		history: NewAmendmentHistory(store.History),
		policy:  policy,
		revoker: revoker,
		config:  consentConfig,
		metrics: m,
		logger:  logger,
	}, nil
}

// txScope collects effects of a transaction that are published only after commit
type txScope struct {
	transitions         []string
	mappingsCreated     int
	mappingsDeactivated int
	afterCommit         []func(ctx context.Context)
}

func (t *txScope) bound(result *BindResult) {
	t.mappingsCreated += result.Created
	t.mappingsDeactivated += result.Deactivated
}

// runInTx executes fn in one transaction and converts its failure into a ServiceError
func (s *ConsentLifecycle) runInTx(ctx context.Context, operation string, fn func(tx *database.Transaction, scope *txScope) error) error {
	start := time.Now()
	scope := &txScope{}

	err := s.store.WithTransaction(ctx, func(tx *database.Transaction) error {
		return fn(tx, scope)
	})
	if err != nil {
		err = s.translate(err, operation)
		s.metrics.ObserveOperation(operation, start, err)
		return err
	}

	for _, status := range scope.transitions {
		s.metrics.IncStatusTransition(status)
	}
	s.metrics.AddMappingChanges(scope.mappingsCreated, scope.mappingsDeactivated)
	for _, hook := range scope.afterCommit {
		hook(ctx)
	}
	s.metrics.ObserveOperation(operation, start, nil)
	return nil
}

// read runs a non-transactional query with the same error handling as runInTx
func (s *ConsentLifecycle) read(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil {
		err = s.translate(err, operation)
	}
	s.metrics.ObserveOperation(operation, start, err)
	return err
}

func (s *ConsentLifecycle) translate(err error, operation string) error {
	var translated *serviceerror.ServiceError
	switch {
	case errors.Is(err, dao.ErrRecordNotFound):
		translated = serviceerror.NotFound("%s", err.Error())
	case errors.Is(err, dao.ErrStaleStatus):
		translated = serviceerror.InvalidStateTransition("%s", err.Error())
	default:
		translated = serviceerror.From(err, operation)
	}

	entry := s.logger.WithFields(logrus.Fields{
		"operation": operation,
		"kind":      translated.Kind,
	})
	if translated.Kind == serviceerror.KindPersistence {
		entry.WithError(err).Error("Consent operation failed")
	} else {
		entry.Debug(translated.ErrorDescription)
	}
	return translated
}

// transition moves a consent locked in tx from one status to another and audits it.
// Staying in the same status is not a transition: nothing is written or audited.
func (s *ConsentLifecycle) transition(ctx context.Context, tx *database.Transaction, scope *txScope, consentID, from, to, reason, actionBy string) error {
	if from == to {
		return nil
	}
	if err := s.policy.CanTransition(from, to); err != nil {
		return err
	}
	if err := s.store.Consents.UpdateStatus(ctx, tx, consentID, from, to, utils.GetCurrentTimeSeconds()); err != nil {
		return err
	}
	if _, err := s.audit.Append(ctx, tx, consentID, from, to, reason, actionBy); err != nil {
		return err
	}
	scope.transitions = append(scope.transitions, to)
	return nil
}

// isApproval reports whether a bind records the user's approval
func (s *ConsentLifecycle) isApproval(authStatus, consentStatus string) bool {
	if authStatus != "" && authStatus == s.config.AuthStatusMappings.RejectedStatus {
		return false
	}
	return consentStatus == "" || consentStatus != s.config.StatusMappings.RejectedStatus
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return serviceerror.Validation("%s", err.Error())
}

func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if err := utils.ValidateRequired(f[0], f[1]); err != nil {
			return validationError(err)
		}
	}
	return nil
}

// fitColumns checks each named value against the width of the column storing it
func fitColumns(width int, fields ...[2]string) error {
	for _, f := range fields {
		if err := utils.ValidateMaxLength(f[0], f[1], width); err != nil {
			return validationError(err)
		}
	}
	return nil
}

func validateStatuses(statuses ...string) error {
	for _, status := range statuses {
		if err := utils.ValidateStatus(status); err != nil {
			return validationError(err)
		}
	}
	return nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// CreateAuthorizableConsent persists a new consent with its attributes and the
// creation audit record. With implicit authorization an authorization resource
// is created in the same transaction.
func (s *ConsentLifecycle) CreateAuthorizableConsent(ctx context.Context, req CreateConsentRequest) (*models.DetailedConsentResource, error) {
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}

	var created *models.DetailedConsentResource
	err := s.runInTx(ctx, "create_consent", func(tx *database.Transaction, scope *txScope) error {
		var err error
		created, err = s.createInTx(ctx, tx, scope, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id":   created.ConsentID,
		"client_id":    created.ClientID,
		"consent_type": created.ConsentType,
	}).Info("Consent created")
	return created, nil
}

// CreateExclusiveConsent moves every consent of the same client, type and user in one of
// the applicable statuses to newExistingStatus, then creates the new consent, atomically
func (s *ConsentLifecycle) CreateExclusiveConsent(ctx context.Context, req ExclusiveConsentRequest) (*models.DetailedConsentResource, error) {
	if err := s.validateCreate(&req.CreateConsentRequest); err != nil {
		return nil, err
	}
	if err := requireFields([2]string{"userID", req.UserID}, [2]string{"newExistingStatus", req.NewExistingStatus}); err != nil {
		return nil, err
	}
	if len(req.ApplicableExistingStatuses) == 0 {
		return nil, serviceerror.Validation("at least one applicable existing status is required")
	}
	if err := validateStatuses(req.NewExistingStatus); err != nil {
		return nil, err
	}

	var created *models.DetailedConsentResource
	var retired int
	err := s.runInTx(ctx, "create_exclusive_consent", func(tx *database.Transaction, scope *txScope) error {
		existing, _, err := s.store.Consents.Search(ctx, tx, models.ConsentSearchFilter{
			ClientIDs:       []string{req.Consent.ClientID},
			ConsentTypes:    []string{req.Consent.ConsentType},
			ConsentStatuses: req.ApplicableExistingStatuses,
			UserIDs:         []string{req.UserID},
		})
		if err != nil {
			return err
		}

		applicable := make(map[string]struct{}, len(req.ApplicableExistingStatuses))
		for _, st := range req.ApplicableExistingStatuses {
			applicable[st] = struct{}{}
		}

		for _, c := range existing {
			detailed, err := s.store.GetDetailedConsent(ctx, tx, c.ConsentID, true)
			if err != nil {
				return err
			}
			if _, ok := applicable[detailed.CurrentStatus]; !ok {
				continue
			}
			if err := s.transition(ctx, tx, scope, detailed.ConsentID, detailed.CurrentStatus, req.NewExistingStatus,
				models.ReasonExclusiveAuthorization, req.UserID); err != nil {
				return err
			}
			n, err := s.binder.Deactivate(ctx, tx, detailed.AuthorizationIDs())
			if err != nil {
				return err
			}
			scope.mappingsDeactivated += n
			retired++
		}

		created, err = s.createInTx(ctx, tx, scope, req.CreateConsentRequest)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id":       created.ConsentID,
		"client_id":        created.ClientID,
		"retired_consents": retired,
	}).Info("Exclusive consent created")
	return created, nil
}

func (s *ConsentLifecycle) validateCreate(req *CreateConsentRequest) error {
	c := &req.Consent
	if err := utils.ValidateClientID(c.ClientID); err != nil {
		return validationError(err)
	}
	if err := utils.ValidateConsentType(c.ConsentType); err != nil {
		return validationError(err)
	}
	if err := utils.ValidateStatus(c.CurrentStatus); err != nil {
		return validationError(err)
	}
	if c.ConsentFrequency < 0 {
		return serviceerror.Validation("consent frequency must not be negative")
	}
	if c.ValidityPeriod < 0 {
		return serviceerror.Validation("validity period must not be negative")
	}
	if err := fitColumns(utils.MaxIdentifierLength,
		[2]string{"orgID", c.OrgID},
		[2]string{"userID", req.UserID},
		[2]string{"authStatus", req.AuthStatus},
		[2]string{"authType", req.AuthType},
	); err != nil {
		return err
	}
	if err := utils.ValidateAttributes(req.Attributes); err != nil {
		return validationError(err)
	}
	if req.ImplicitAuth {
		if err := requireFields([2]string{"authStatus", req.AuthStatus}, [2]string{"authType", req.AuthType}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ConsentLifecycle) createInTx(ctx context.Context, tx *database.Transaction, scope *txScope, req CreateConsentRequest) (*models.DetailedConsentResource, error) {
	now := utils.GetCurrentTimeSeconds()
	consent := req.Consent
	consent.ConsentID = utils.GenerateConsentID()
	if consent.OrgID == "" {
		consent.OrgID = models.DefaultOrgID
	}
	consent.CreatedTime = now
	consent.UpdatedTime = now

	if err := s.store.Consents.Create(ctx, tx, &consent); err != nil {
		return nil, err
	}
	if len(req.Attributes) > 0 {
		if err := s.store.Attributes.Upsert(ctx, tx, consent.ConsentID, req.Attributes); err != nil {
			return nil, err
		}
	}
	if _, err := s.audit.Append(ctx, tx, consent.ConsentID, "", consent.CurrentStatus, models.ReasonCreate, req.UserID); err != nil {
		return nil, err
	}
	scope.transitions = append(scope.transitions, consent.CurrentStatus)

	if req.ImplicitAuth {
		auth := &models.AuthorizationResource{
			AuthorizationID:     utils.GenerateAuthID(),
			ConsentID:           consent.ConsentID,
			AuthorizationType:   req.AuthType,
			AuthorizationStatus: req.AuthStatus,
			UpdatedTime:         now,
		}
		if req.UserID != "" {
			userID := req.UserID
			auth.UserID = &userID
		}
		if err := s.store.AuthResources.Create(ctx, tx, auth); err != nil {
			return nil, err
		}
	}

	return s.store.GetDetailedConsent(ctx, tx, consent.ConsentID, false)
}

// GetConsent returns the consent row without authorizations or mappings. Attributes
// are loaded only when withAttributes is set.
func (s *ConsentLifecycle) GetConsent(ctx context.Context, consentID string, withAttributes bool) (*models.ConsentResource, map[string]string, error) {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, nil, validationError(err)
	}
	var consent *models.ConsentResource
	var attributes map[string]string
	err := s.read(ctx, "get_consent", func() error {
		var err error
		consent, err = s.store.Consents.GetByID(ctx, nil, consentID)
		if err != nil || !withAttributes {
			return err
		}
		attributes, err = s.store.Attributes.GetByConsentID(ctx, nil, consentID, nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return consent, attributes, nil
}

// GetDetailedConsent returns the consent aggregate with every authorization,
// mapping (active and inactive) and attribute
func (s *ConsentLifecycle) GetDetailedConsent(ctx context.Context, consentID string) (*models.DetailedConsentResource, error) {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, validationError(err)
	}
	var detailed *models.DetailedConsentResource
	err := s.read(ctx, "get_detailed_consent", func() error {
		var err error
		detailed, err = s.store.GetDetailedConsent(ctx, nil, consentID, false)
		return err
	})
	return detailed, err
}

// UpdateConsentStatus moves a consent to newStatus, subject to the transition policy
func (s *ConsentLifecycle) UpdateConsentStatus(ctx context.Context, consentID, newStatus, reason, actionBy string) (*models.DetailedConsentResource, error) {
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, validationError(err)
	}
	if err := utils.ValidateStatus(newStatus); err != nil {
		return nil, validationError(err)
	}
	if err := fitColumns(utils.MaxIdentifierLength, [2]string{"reason", reason}, [2]string{"actionBy", actionBy}); err != nil {
		return nil, err
	}
	if reason == "" {
		reason = models.ReasonStatusUpdate
	}

	var updated *models.DetailedConsentResource
	err := s.runInTx(ctx, "update_consent_status", func(tx *database.Transaction, scope *txScope) error {
		consent, err := s.store.Consents.GetByIDForUpdate(ctx, tx, consentID)
		if err != nil {
			return err
		}
		if err := s.transition(ctx, tx, scope, consentID, consent.CurrentStatus, newStatus, reason, actionBy); err != nil {
			return err
		}
		updated, err = s.store.GetDetailedConsent(ctx, tx, consentID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SearchDetailedConsents returns a page of matching aggregates and the total match count
func (s *ConsentLifecycle) SearchDetailedConsents(ctx context.Context, filter models.ConsentSearchFilter) ([]models.DetailedConsentResource, int, error) {
	if filter.FromTime != nil && filter.ToTime != nil && *filter.FromTime > *filter.ToTime {
		return nil, 0, serviceerror.Validation("fromTime must not be after toTime")
	}
	filter.Limit = utils.ValidateLimit(filter.Limit)
	filter.Offset = utils.ValidateOffset(filter.Offset)

	var results []models.DetailedConsentResource
	var total int
	err := s.read(ctx, "search_detailed_consents", func() error {
		var err error
		results, total, err = s.store.SearchDetailedConsents(ctx, nil, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// expiryBatchSize bounds the consent IDs loaded per query by the expiry sweep
const expiryBatchSize = 100

// GetConsentsEligibleForExpiration returns consents in one of the eligible statuses
// whose expiry attribute lies in the past
func (s *ConsentLifecycle) GetConsentsEligibleForExpiration(ctx context.Context, eligibleStatuses []string) ([]models.DetailedConsentResource, error) {
	if len(eligibleStatuses) == 0 {
		return nil, serviceerror.Validation("at least one eligible status is required")
	}

	results := []models.DetailedConsentResource{}
	err := s.read(ctx, "get_consents_eligible_for_expiration", func() error {
		expiries, err := s.store.Attributes.GetByKeyForStatuses(ctx, nil, s.config.ExpiryAttributeKey, eligibleStatuses)
		if err != nil {
			return err
		}

		var expired []string
		for consentID, value := range expiries {
			expiry, err := utils.ParseEpochOrRFC3339(value)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"consent_id": consentID,
					"value":      value,
				}).Warn("Ignoring unparsable consent expiry attribute")
				continue
			}
			if utils.IsExpired(expiry) {
				expired = append(expired, consentID)
			}
		}
		sort.Strings(expired)

		for start := 0; start < len(expired); start += expiryBatchSize {
			end := min(start+expiryBatchSize, len(expired))
			batch, _, err := s.store.SearchDetailedConsents(ctx, nil, models.ConsentSearchFilter{
				ConsentIDs:      expired[start:end],
				ConsentStatuses: eligibleStatuses,
			})
			if err != nil {
				return err
			}
			results = append(results, batch...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// PurgeConsents physically deletes consents with their authorizations, mappings
// and attributes. Audit records and amendment history are kept.
func (s *ConsentLifecycle) PurgeConsents(ctx context.Context, consentIDs []string) (int64, error) {
	if len(consentIDs) == 0 {
		return 0, serviceerror.Validation("at least one consent ID is required")
	}
	for _, id := range consentIDs {
		if err := utils.ValidateConsentID(id); err != nil {
			return 0, validationError(err)
		}
	}

	var purged int64
	err := s.runInTx(ctx, "purge_consents", func(tx *database.Transaction, scope *txScope) error {
		var err error
		purged, err = s.store.Purge(ctx, tx, consentIDs)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.WithField("purged", purged).Info("Consents purged")
	return purged, nil
}

func describeConsent(c *models.ConsentResource) string {
	return fmt.Sprintf("consent %s (%s)", c.ConsentID, c.CurrentStatus)
}
