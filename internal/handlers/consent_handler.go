package handlers

//go:generate mockgen -source=consent_handler.go -destination=mocks/consent_manager_mock.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/service"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/internal/utils"
	pkgutils "github.com/wso2/ob-consent-mgt/pkg/utils"
)

// DefaultAuthorizationType is used when a request does not name an authorization type
const DefaultAuthorizationType = "authorisation"

// ConsentManager is the consent lifecycle as seen by the HTTP layer
type ConsentManager interface {
	CreateAuthorizableConsent(ctx context.Context, req service.CreateConsentRequest) (*models.DetailedConsentResource, error)
	CreateExclusiveConsent(ctx context.Context, req service.ExclusiveConsentRequest) (*models.DetailedConsentResource, error)
	GetConsent(ctx context.Context, consentID string, withAttributes bool) (*models.ConsentResource, map[string]string, error)
	GetDetailedConsent(ctx context.Context, consentID string) (*models.DetailedConsentResource, error)
	SearchDetailedConsents(ctx context.Context, filter models.ConsentSearchFilter) ([]models.DetailedConsentResource, int, error)
	UpdateConsentStatus(ctx context.Context, consentID, newStatus, reason, actionBy string) (*models.DetailedConsentResource, error)
	RevokeConsent(ctx context.Context, req service.RevokeRequest) (bool, error)
	RevokeExistingApplicableConsents(ctx context.Context, req service.BulkRevokeRequest) (bool, error)
	BindUserAccountsToConsent(ctx context.Context, req service.BindRequest) (bool, error)
	ReAuthorizeExistingAuthResource(ctx context.Context, req service.ReauthorizeRequest) (bool, error)
	ReAuthorizeConsentWithNewAuthResource(ctx context.Context, req service.ReauthorizeWithNewAuthRequest) (bool, error)
	AmendDetailedConsent(ctx context.Context, req service.AmendRequest) (*models.DetailedConsentResource, error)
	GetConsentAmendmentHistoryData(ctx context.Context, consentID string) ([]models.ConsentHistoryResource, error)
	GetConsentStatusAuditRecords(ctx context.Context, consentIDs []string, limit, offset int) ([]models.ConsentStatusAuditRecord, error)
	SearchConsentStatusAuditRecords(ctx context.Context, filter models.AuditSearchFilter) ([]models.ConsentStatusAuditRecord, error)
	GetConsentsEligibleForExpiration(ctx context.Context, eligibleStatuses []string) ([]models.DetailedConsentResource, error)
	PurgeConsents(ctx context.Context, consentIDs []string) (int64, error)
	StoreConsentAttributes(ctx context.Context, consentID string, attributes map[string]string) error
	GetConsentAttributes(ctx context.Context, consentID string, keys []string) (map[string]string, error)
	GetConsentAttributesByName(ctx context.Context, key string) (map[string]string, error)
	GetConsentIDsByAttribute(ctx context.Context, key, value string) ([]string, error)
	DeleteConsentAttributes(ctx context.Context, consentID string, keys []string) error
	GetAuthorizationResource(ctx context.Context, authID string) (*models.AuthorizationResource, error)
	SearchAuthorizations(ctx context.Context, filter models.AuthorizationSearchFilter) ([]models.AuthorizationResource, error)
	UpdateAuthorizationStatus(ctx context.Context, authID, newStatus, actionBy string) (*models.AuthorizationResource, error)
	UpdateAuthorizationUser(ctx context.Context, authID, userID string) error
	StoreConsentFile(ctx context.Context, req service.StoreConsentFileRequest) (bool, error)
	GetConsentFile(ctx context.Context, consentID string) (*models.ConsentFile, error)
}

// ConsentHandler handles consent-related HTTP requests
type ConsentHandler struct {
	manager ConsentManager
	config  config.ConsentConfig
	logger  *logrus.Logger
}

// ConsentSearchResponse is one page of detailed consents
type ConsentSearchResponse struct {
	Data     []models.DetailedConsentResource `json:"data"`
	Metadata *utils.PaginationMetadata        `json:"metadata"`
}

// NewConsentHandler creates a new consent handler instance.
// Request fields left empty fall back to the configured status mappings.
func NewConsentHandler(manager ConsentManager, consentConfig config.ConsentConfig, logger *logrus.Logger) *ConsentHandler {
	return &ConsentHandler{
		manager: manager,
		config:  consentConfig,
		logger:  logger,
	}
}

// CreateConsent handles POST /consents
func (h *ConsentHandler) CreateConsent(c *gin.Context) {
	var body CreateConsentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	clientID := utils.GetClientIDFromContext(c)
	if clientID == "" {
		clientID = body.ClientID
	}

	req := service.CreateConsentRequest{
		Consent: models.ConsentResource{
			ClientID:           clientID,
			OrgID:              utils.GetOrgIDFromContext(c),
			Receipt:            receipt(body.Receipt),
			ConsentType:        body.Type,
			CurrentStatus:      orDefault(body.Status, h.config.StatusMappings.CreatedStatus),
			ConsentFrequency:   body.Frequency,
			ValidityPeriod:     body.ValidityPeriod,
			RecurringIndicator: body.RecurringIndicator,
		},
		Attributes: body.Attributes,
	}
	if body.Authorization != nil {
		req.ImplicitAuth = true
		req.UserID = body.Authorization.UserID
		req.AuthType = orDefault(body.Authorization.Type, DefaultAuthorizationType)
		req.AuthStatus = orDefault(body.Authorization.Status, h.config.AuthStatusMappings.CreatedStatus)
	}

	var (
		created *models.DetailedConsentResource
		err     error
	)
	if body.Exclusive != nil {
		created, err = h.manager.CreateExclusiveConsent(c.Request.Context(), service.ExclusiveConsentRequest{
			CreateConsentRequest:       req,
			ApplicableExistingStatuses: body.Exclusive.ApplicableStatuses,
			NewExistingStatus:          body.Exclusive.NewExistingStatus,
		})
	} else {
		created, err = h.manager.CreateAuthorizableConsent(c.Request.Context(), req)
	}
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "create_consent")
		return
	}

	utils.SendCreatedResponse(c, created)
}

// GetConsent handles GET /consents/:consentId.
// detailed=false returns the bare consent with its attributes.
func (h *ConsentHandler) GetConsent(c *gin.Context) {
	consentID := c.Param("consentId")

	if c.Query("detailed") == "false" {
		consent, attributes, err := h.manager.GetConsent(c.Request.Context(), consentID, true)
		if err != nil {
			utils.SendServiceError(c, h.logger, err, "get_consent")
			return
		}
		utils.SendOKResponse(c, gin.H{"consent": consent, "attributes": attributes})
		return
	}

	detailed, err := h.manager.GetDetailedConsent(c.Request.Context(), consentID)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_detailed_consent")
		return
	}
	utils.SendOKResponse(c, detailed)
}

// SearchConsents handles GET /consents
func (h *ConsentHandler) SearchConsents(c *gin.Context) {
	filter := models.ConsentSearchFilter{
		ConsentIDs:      queryList(c, "consentIds"),
		ClientIDs:       queryList(c, "clientIds"),
		ConsentTypes:    queryList(c, "consentTypes"),
		ConsentStatuses: queryList(c, "consentStatuses"),
		UserIDs:         queryList(c, "userIds"),
	}

	var err error
	if filter.FromTime, err = queryInt64Ptr(c, "fromTime"); err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}
	if filter.ToTime, err = queryInt64Ptr(c, "toTime"); err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}
	if filter.Limit, filter.Offset, err = pagination(c); err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}

	results, total, err := h.manager.SearchDetailedConsents(c.Request.Context(), filter)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "search_consents")
		return
	}

	limit := pkgutils.ValidateLimit(filter.Limit)
	offset := pkgutils.ValidateOffset(filter.Offset)
	utils.SendOKResponse(c, ConsentSearchResponse{
		Data:     results,
		Metadata: utils.CalculatePaginationMetadata(total, limit, offset),
	})
}

// UpdateConsentStatus handles PUT /consents/:consentId/status
func (h *ConsentHandler) UpdateConsentStatus(c *gin.Context) {
	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	updated, err := h.manager.UpdateConsentStatus(c.Request.Context(), c.Param("consentId"), body.Status, body.Reason, body.ActionBy)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "update_consent_status")
		return
	}
	utils.SendOKResponse(c, updated)
}

// RevokeConsent handles POST /consents/:consentId/revoke
func (h *ConsentHandler) RevokeConsent(c *gin.Context) {
	var body RevokeBody
	if !bindOptionalJSON(c, &body) {
		return
	}

	_, err := h.manager.RevokeConsent(c.Request.Context(), service.RevokeRequest{
		ConsentID:          c.Param("consentId"),
		RevokedStatus:      orDefault(body.Status, h.config.StatusMappings.RevokedStatus),
		UserID:             body.UserID,
		Reason:             body.Reason,
		ShouldRevokeTokens: body.RevokeTokens,
	})
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "revoke_consent")
		return
	}
	utils.SendNoContentResponse(c)
}

// RevokeApplicableConsents handles POST /consents/revoke
func (h *ConsentHandler) RevokeApplicableConsents(c *gin.Context) {
	var body BulkRevokeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	clientID := body.ClientID
	if clientID == "" {
		clientID = utils.GetClientIDFromContext(c)
	}

	_, err := h.manager.RevokeExistingApplicableConsents(c.Request.Context(), service.BulkRevokeRequest{
		ClientID:           clientID,
		UserID:             body.UserID,
		ConsentType:        body.Type,
		ApplicableStatus:   orDefault(body.ApplicableStatus, h.config.StatusMappings.ActiveStatus),
		RevokedStatus:      orDefault(body.Status, h.config.StatusMappings.RevokedStatus),
		ShouldRevokeTokens: body.RevokeTokens,
	})
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "revoke_applicable_consents")
		return
	}
	utils.SendNoContentResponse(c)
}

// BindAccounts handles POST /consents/:consentId/bind
func (h *ConsentHandler) BindAccounts(c *gin.Context) {
	var body BindBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	accounts := body.Accounts
	if len(accounts) == 0 && len(body.AccountIDs) > 0 {
		accounts = models.AccountsWithoutPermissions(body.AccountIDs)
	}

	_, err := h.manager.BindUserAccountsToConsent(c.Request.Context(), service.BindRequest{
		ConsentID:        c.Param("consentId"),
		AuthID:           body.AuthID,
		UserID:           body.UserID,
		Accounts:         accounts,
		NewAuthStatus:    orDefault(body.AuthStatus, h.config.AuthStatusMappings.AuthorizedStatus),
		NewConsentStatus: orDefault(body.ConsentStatus, h.config.StatusMappings.ActiveStatus),
	})
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "bind_accounts")
		return
	}
	utils.SendNoContentResponse(c)
}

// Reauthorize handles POST /consents/:consentId/reauthorize
func (h *ConsentHandler) Reauthorize(c *gin.Context) {
	var body ReauthorizeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	active := h.config.StatusMappings.ActiveStatus
	var err error
	if body.AuthID != "" {
		_, err = h.manager.ReAuthorizeExistingAuthResource(c.Request.Context(), service.ReauthorizeRequest{
			ConsentID:     c.Param("consentId"),
			AuthID:        body.AuthID,
			UserID:        body.UserID,
			Accounts:      body.Accounts,
			CurrentStatus: orDefault(body.CurrentStatus, active),
			NewStatus:     orDefault(body.NewStatus, active),
		})
	} else {
		_, err = h.manager.ReAuthorizeConsentWithNewAuthResource(c.Request.Context(), service.ReauthorizeWithNewAuthRequest{
			ConsentID:             c.Param("consentId"),
			UserID:                body.UserID,
			Accounts:              body.Accounts,
			CurrentStatus:         orDefault(body.CurrentStatus, active),
			NewStatus:             orDefault(body.NewStatus, active),
			NewExistingAuthStatus: orDefault(body.NewExistingAuthStatus, h.config.AuthStatusMappings.ReplacedStatus),
			NewAuthStatus:         orDefault(body.NewAuthStatus, h.config.AuthStatusMappings.AuthorizedStatus),
			NewAuthType:           orDefault(body.NewAuthType, DefaultAuthorizationType),
		})
	}
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "reauthorize_consent")
		return
	}
	utils.SendNoContentResponse(c)
}

// AmendConsent handles PUT /consents/:consentId/amend
func (h *ConsentHandler) AmendConsent(c *gin.Context) {
	var body AmendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	req := service.AmendRequest{
		ConsentID:      c.Param("consentId"),
		Receipt:        receiptPtr(body.Receipt),
		ValidityPeriod: body.ValidityPeriod,
		AuthID:         body.AuthID,
		Accounts:       body.Accounts,
		NewStatus:      body.Status,
		Attributes:     body.Attributes,
		UserID:         body.UserID,
		Reason:         body.Reason,
	}
	for _, auth := range body.NewAuthorizations {
		req.NewAuthorizations = append(req.NewAuthorizations, service.NewAuthorization{
			UserID:     auth.UserID,
			AuthType:   orDefault(auth.Type, DefaultAuthorizationType),
			AuthStatus: orDefault(auth.Status, h.config.AuthStatusMappings.AuthorizedStatus),
			Accounts:   auth.Accounts,
		})
	}

	amended, err := h.manager.AmendDetailedConsent(c.Request.Context(), req)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "amend_consent")
		return
	}
	utils.SendOKResponse(c, amended)
}

// GetAmendmentHistory handles GET /consents/:consentId/history
func (h *ConsentHandler) GetAmendmentHistory(c *gin.Context) {
	history, err := h.manager.GetConsentAmendmentHistoryData(c.Request.Context(), c.Param("consentId"))
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_amendment_history")
		return
	}
	utils.SendOKResponse(c, history)
}

// GetStatusAudit handles GET /consents/:consentId/audit
func (h *ConsentHandler) GetStatusAudit(c *gin.Context) {
	limit, offset, err := pagination(c)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}

	records, err := h.manager.GetConsentStatusAuditRecords(c.Request.Context(), []string{c.Param("consentId")}, limit, offset)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_status_audit")
		return
	}
	utils.SendOKResponse(c, records)
}

// SearchStatusAudit handles GET /consent-audits
func (h *ConsentHandler) SearchStatusAudit(c *gin.Context) {
	filter := models.AuditSearchFilter{
		ConsentIDs: queryList(c, "consentIds"),
		Status:     c.Query("status"),
		ActionBy:   c.Query("actionBy"),
		AuditID:    c.Query("auditId"),
	}

	var err error
	if filter.FromTime, err = queryInt64Ptr(c, "fromTime"); err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}
	if filter.ToTime, err = queryInt64Ptr(c, "toTime"); err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}
	if filter.Limit, filter.Offset, err = pagination(c); err != nil {
		utils.SendServiceError(c, h.logger, err, "parse_query")
		return
	}

	records, err := h.manager.SearchConsentStatusAuditRecords(c.Request.Context(), filter)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "search_status_audit")
		return
	}
	utils.SendOKResponse(c, records)
}

// GetExpirableConsents handles GET /consents/expirable
func (h *ConsentHandler) GetExpirableConsents(c *gin.Context) {
	statuses := queryList(c, "statuses")
	if len(statuses) == 0 {
		statuses = []string{h.config.StatusMappings.ActiveStatus}
	}

	consents, err := h.manager.GetConsentsEligibleForExpiration(c.Request.Context(), statuses)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_expirable_consents")
		return
	}
	utils.SendOKResponse(c, consents)
}

// PurgeConsent handles DELETE /consents/:consentId
func (h *ConsentHandler) PurgeConsent(c *gin.Context) {
	consentID := c.Param("consentId")
	purged, err := h.manager.PurgeConsents(c.Request.Context(), []string{consentID})
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "purge_consent")
		return
	}
	if purged == 0 {
		utils.SendServiceError(c, h.logger, serviceerror.NotFound("consent %s not found", consentID), "purge_consent")
		return
	}
	utils.SendNoContentResponse(c)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// bindOptionalJSON decodes the body when there is one. An empty body, including
// an empty chunked one, leaves target untouched.
func bindOptionalJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil && !errors.Is(err, io.EOF) {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// queryList accepts both repeated and comma separated query values
func queryList(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, value := range strings.Split(raw, ",") {
			if value = strings.TrimSpace(value); value != "" {
				values = append(values, value)
			}
		}
	}
	return values
}

func queryInt64Ptr(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, serviceerror.Validation("%s must be an integer", key)
	}
	return &value, nil
}

func pagination(c *gin.Context) (int, int, error) {
	limit, offset := 0, 0
	var err error
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return 0, 0, serviceerror.Validation("limit must be an integer")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil {
			return 0, 0, serviceerror.Validation("offset must be an integer")
		}
	}
	return limit, offset, nil
}
