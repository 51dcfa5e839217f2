package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/handlers/mocks"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/service"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/internal/utils"
)

type ConsentHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	manager *mocks.MockConsentManager
	hook    *test.Hook
	router  *gin.Engine
}

func TestConsentHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConsentHandlerSuite))
}

func (s *ConsentHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctrl = gomock.NewController(s.T())
	s.manager = mocks.NewMockConsentManager(s.ctrl)

	var logger *logrus.Logger
	logger, s.hook = test.NewNullLogger()

	handler := NewConsentHandler(s.manager, config.ConsentConfig{
		StatusMappings: config.ConsentStatusMappings{
			ActiveStatus:   "authorised",
			ExpiredStatus:  "expired",
			RevokedStatus:  "revoked",
			CreatedStatus:  "awaitingAuthorisation",
			RejectedStatus: "rejected",
		},
		AuthStatusMappings: config.AuthStatusMappings{
			CreatedStatus:    "created",
			AuthorizedStatus: "authorised",
			RejectedStatus:   "rejected",
			ReplacedStatus:   "replaced",
		},
	}, logger)

	s.router = gin.New()
	s.router.Use(func(c *gin.Context) {
		if clientID := c.GetHeader("client-id"); clientID != "" {
			c.Set(utils.ClientIDKey, clientID)
		}
		c.Next()
	})
	s.router.POST("/consents", handler.CreateConsent)
	s.router.GET("/consents", handler.SearchConsents)
	s.router.GET("/consents/expirable", handler.GetExpirableConsents)
	s.router.GET("/consents/attributes", handler.FindByAttribute)
	s.router.GET("/consents/:consentId", handler.GetConsent)
	s.router.DELETE("/consents/:consentId", handler.PurgeConsent)
	s.router.PUT("/consents/:consentId/status", handler.UpdateConsentStatus)
	s.router.POST("/consents/:consentId/revoke", handler.RevokeConsent)
	s.router.POST("/consents/:consentId/bind", handler.BindAccounts)
	s.router.POST("/consents/:consentId/reauthorize", handler.Reauthorize)
	s.router.PUT("/consents/:consentId/amend", handler.AmendConsent)
	s.router.GET("/consents/:consentId/audit", handler.GetStatusAudit)
	s.router.PUT("/consents/:consentId/file", handler.UploadConsentFile)
	s.router.GET("/consents/:consentId/file", handler.GetConsentFile)
	s.router.PUT("/authorizations/:authId/status", handler.UpdateAuthorizationStatus)
}

func (s *ConsentHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ConsentHandlerSuite) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ConsentHandlerSuite) decodeError(w *httptest.ResponseRecorder) models.ErrorResponse {
	var resp models.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *ConsentHandlerSuite) TestCreateConsent_AppliesDefaultsAndHeaderClient() {
	expected := service.CreateConsentRequest{
		Consent: models.ConsentResource{
			ClientID:       "tpp-1",
			Receipt:        `{"permissions":["ReadAccountsBasic"]}`,
			ConsentType:    "accounts",
			CurrentStatus:  "awaitingAuthorisation",
			ValidityPeriod: 3600,
		},
		Attributes:   map[string]string{"ExpirationDateTime": "1999999999"},
		UserID:       "alice",
		AuthType:     DefaultAuthorizationType,
		AuthStatus:   "created",
		ImplicitAuth: true,
	}
	s.manager.EXPECT().CreateAuthorizableConsent(gomock.Any(), expected).
		Return(&models.DetailedConsentResource{ConsentResource: models.ConsentResource{ConsentID: "c-1"}}, nil)

	w := s.do(http.MethodPost, "/consents", map[string]interface{}{
		"clientId":       "ignored-body-client",
		"type":           "accounts",
		"receipt":        json.RawMessage(`{"permissions":["ReadAccountsBasic"]}`),
		"validityPeriod": 3600,
		"attributes":     map[string]string{"ExpirationDateTime": "1999999999"},
		"authorization":  map[string]string{"userId": "alice"},
	}, map[string]string{"client-id": "tpp-1"})

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"consentId":"c-1"`)
}

func (s *ConsentHandlerSuite) TestCreateConsent_ExclusiveRoutesToExclusiveCreate() {
	s.manager.EXPECT().CreateExclusiveConsent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req service.ExclusiveConsentRequest) (*models.DetailedConsentResource, error) {
			s.Equal([]string{"authorised"}, req.ApplicableExistingStatuses)
			s.Equal("revoked", req.NewExistingStatus)
			s.Equal("client-body", req.Consent.ClientID)
			return &models.DetailedConsentResource{}, nil
		})

	w := s.do(http.MethodPost, "/consents", map[string]interface{}{
		"clientId": "client-body",
		"type":     "accounts",
		"exclusive": map[string]interface{}{
			"applicableStatuses": []string{"authorised"},
			"newExistingStatus":  "revoked",
		},
	}, nil)

	s.Equal(http.StatusCreated, w.Code)
}

func (s *ConsentHandlerSuite) TestCreateConsent_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/consents", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(serviceerror.ErrValidation.Code, s.decodeError(w).Code)
}

func (s *ConsentHandlerSuite) TestErrorKindsMapToStatusCodes() {
	cases := []struct {
		err  error
		code int
	}{
		{serviceerror.Validation("bad"), http.StatusBadRequest},
		{serviceerror.NotFound("consent c-1 not found"), http.StatusNotFound},
		{serviceerror.InvalidStateTransition("revoked is terminal"), http.StatusConflict},
		{serviceerror.Persistence(errors.New("disk on fire"), "get failed"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.manager.EXPECT().GetDetailedConsent(gomock.Any(), "c-1").Return(nil, tc.err)
		w := s.do(http.MethodGet, "/consents/c-1", nil, nil)
		s.Equal(tc.code, w.Code)
		s.NotContains(w.Body.String(), "disk on fire")
	}
	s.Require().NotNil(s.hook.LastEntry())
	s.Equal(logrus.ErrorLevel, s.hook.LastEntry().Level)
}

func (s *ConsentHandlerSuite) TestGetConsent_BareView() {
	s.manager.EXPECT().GetConsent(gomock.Any(), "c-1", true).
		Return(&models.ConsentResource{ConsentID: "c-1"}, map[string]string{"k": "v"}, nil)

	w := s.do(http.MethodGet, "/consents/c-1?detailed=false", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"attributes":{"k":"v"}`)
}

func (s *ConsentHandlerSuite) TestSearchConsents_ParsesFiltersAndPaginates() {
	from := int64(100)
	s.manager.EXPECT().SearchDetailedConsents(gomock.Any(), models.ConsentSearchFilter{
		ClientIDs:       []string{"a", "b"},
		ConsentStatuses: []string{"authorised"},
		FromTime:        &from,
		Limit:           2,
		Offset:          0,
	}).Return([]models.DetailedConsentResource{{}, {}}, 5, nil)

	w := s.do(http.MethodGet, "/consents?clientIds=a,b&consentStatuses=authorised&fromTime=100&limit=2", nil, nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var resp ConsentSearchResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp.Data, 2)
	s.Equal(5, resp.Metadata.Total)
	s.Equal(3, resp.Metadata.TotalPages)
	s.True(resp.Metadata.HasMore)
}

func (s *ConsentHandlerSuite) TestSearchConsents_RejectsNonNumericTime() {
	w := s.do(http.MethodGet, "/consents?toTime=yesterday", nil, nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.decodeError(w).Details, "toTime")
}

func (s *ConsentHandlerSuite) TestUpdateConsentStatus() {
	s.manager.EXPECT().UpdateConsentStatus(gomock.Any(), "c-1", "authorised", "approved", "alice").
		Return(&models.DetailedConsentResource{}, nil)

	w := s.do(http.MethodPut, "/consents/c-1/status", UpdateStatusBody{
		Status: "authorised", Reason: "approved", ActionBy: "alice",
	}, nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *ConsentHandlerSuite) TestRevokeConsent_WithoutBodyUsesRevokedStatus() {
	s.manager.EXPECT().RevokeConsent(gomock.Any(), service.RevokeRequest{
		ConsentID:     "c-1",
		RevokedStatus: "revoked",
	}).Return(true, nil)

	w := s.do(http.MethodPost, "/consents/c-1/revoke", nil, nil)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestRevokeConsent_EmptyChunkedBodyUsesRevokedStatus() {
	s.manager.EXPECT().RevokeConsent(gomock.Any(), service.RevokeRequest{
		ConsentID:     "c-1",
		RevokedStatus: "revoked",
	}).Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/consents/c-1/revoke", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestRevokeConsent_TruncatedBodyIsBadRequest() {
	req := httptest.NewRequest(http.MethodPost, "/consents/c-1/revoke", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	bad := httptest.NewRecorder()
	s.router.ServeHTTP(bad, req)

	s.Equal(http.StatusBadRequest, bad.Code)
}

func (s *ConsentHandlerSuite) TestRevokeConsent_TerminalConsentConflicts() {
	s.manager.EXPECT().RevokeConsent(gomock.Any(), gomock.Any()).
		Return(false, serviceerror.InvalidStateTransition("consent c-1 is already revoked"))

	w := s.do(http.MethodPost, "/consents/c-1/revoke", RevokeBody{UserID: "alice", RevokeTokens: true}, nil)

	s.Equal(http.StatusConflict, w.Code)
	s.Equal(string(serviceerror.KindInvalidStateTransition), s.decodeError(w).Message)
}

func (s *ConsentHandlerSuite) TestBindAccounts_AccountIDsBindWithNotApplicablePermission() {
	s.manager.EXPECT().BindUserAccountsToConsent(gomock.Any(), service.BindRequest{
		ConsentID:        "c-1",
		AuthID:           "a-1",
		UserID:           "alice",
		Accounts:         models.AccountsWithoutPermissions([]string{"acc-1"}),
		NewAuthStatus:    "authorised",
		NewConsentStatus: "authorised",
	}).Return(true, nil)

	w := s.do(http.MethodPost, "/consents/c-1/bind", BindBody{
		AuthID: "a-1", UserID: "alice", AccountIDs: []string{"acc-1"},
	}, nil)

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestReauthorize_SelectsPathByAuthID() {
	s.manager.EXPECT().ReAuthorizeExistingAuthResource(gomock.Any(), gomock.Any()).Return(true, nil)
	w := s.do(http.MethodPost, "/consents/c-1/reauthorize", ReauthorizeBody{AuthID: "a-1", UserID: "alice"}, nil)
	s.Equal(http.StatusNoContent, w.Code)

	s.manager.EXPECT().ReAuthorizeConsentWithNewAuthResource(gomock.Any(), service.ReauthorizeWithNewAuthRequest{
		ConsentID:             "c-1",
		UserID:                "alice",
		CurrentStatus:         "authorised",
		NewStatus:             "authorised",
		NewExistingAuthStatus: "replaced",
		NewAuthStatus:         "authorised",
		NewAuthType:           DefaultAuthorizationType,
	}).Return(true, nil)
	w = s.do(http.MethodPost, "/consents/c-1/reauthorize", ReauthorizeBody{UserID: "alice"}, nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ConsentHandlerSuite) TestAmendConsent_MapsOptionalFields() {
	s.manager.EXPECT().AmendDetailedConsent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req service.AmendRequest) (*models.DetailedConsentResource, error) {
			s.Equal("c-1", req.ConsentID)
			s.Require().NotNil(req.Receipt)
			s.Equal(`{"v":2}`, *req.Receipt)
			s.Nil(req.ValidityPeriod)
			s.Require().Len(req.NewAuthorizations, 1)
			s.Equal("authorised", req.NewAuthorizations[0].AuthStatus)
			s.Equal(DefaultAuthorizationType, req.NewAuthorizations[0].AuthType)
			return &models.DetailedConsentResource{}, nil
		})

	w := s.do(http.MethodPut, "/consents/c-1/amend", map[string]interface{}{
		"receipt": json.RawMessage(`{"v":2}`),
		"newAuthorizations": []map[string]interface{}{
			{"userId": "bob", "accounts": map[string][]string{"acc-9": {"read"}}},
		},
	}, nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *ConsentHandlerSuite) TestGetStatusAudit_PassesPagination() {
	s.manager.EXPECT().GetConsentStatusAuditRecords(gomock.Any(), []string{"c-1"}, 10, 20).
		Return([]models.ConsentStatusAuditRecord{{ConsentID: "c-1"}}, nil)

	w := s.do(http.MethodGet, "/consents/c-1/audit?limit=10&offset=20", nil, nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *ConsentHandlerSuite) TestGetExpirableConsents_DefaultsToActiveStatus() {
	s.manager.EXPECT().GetConsentsEligibleForExpiration(gomock.Any(), []string{"authorised"}).
		Return([]models.DetailedConsentResource{}, nil)

	w := s.do(http.MethodGet, "/consents/expirable", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())
}

func (s *ConsentHandlerSuite) TestPurgeConsent_UnknownConsentIsNotFound() {
	s.manager.EXPECT().PurgeConsents(gomock.Any(), []string{"c-1"}).Return(int64(0), nil)

	w := s.do(http.MethodDelete, "/consents/c-1", nil, nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ConsentHandlerSuite) TestFindByAttribute() {
	s.manager.EXPECT().GetConsentIDsByAttribute(gomock.Any(), "branch", "x").Return([]string{"c-1"}, nil)
	w := s.do(http.MethodGet, "/consents/attributes?key=branch&value=x", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"consentIds":["c-1"]}`, w.Body.String())

	s.manager.EXPECT().GetConsentAttributesByName(gomock.Any(), "branch").Return(map[string]string{"c-1": "x"}, nil)
	w = s.do(http.MethodGet, "/consents/attributes?key=branch", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"attributes":{"c-1":"x"}}`, w.Body.String())
}

func (s *ConsentHandlerSuite) TestUpdateAuthorizationStatus() {
	s.manager.EXPECT().UpdateAuthorizationStatus(gomock.Any(), "a-1", "rejected", "bank").
		Return(&models.AuthorizationResource{AuthorizationID: "a-1", AuthorizationStatus: "rejected"}, nil)

	w := s.do(http.MethodPut, "/authorizations/a-1/status", UpdateAuthorizationBody{Status: "rejected", ActionBy: "bank"}, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"authorizationStatus":"rejected"`)
}
