package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/handlers"
	"github.com/wso2/ob-consent-mgt/internal/handlers/mocks"
	"github.com/wso2/ob-consent-mgt/internal/metrics"
	"github.com/wso2/ob-consent-mgt/internal/models"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context) error { return f.err }

func newTestRouter(t *testing.T, cfg *config.Config, health HealthChecker) (*gin.Engine, *mocks.MockConsentManager) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	manager := mocks.NewMockConsentManager(ctrl)
	logger, _ := test.NewNullLogger()

	reg := prometheus.NewRegistry()
	metrics.New(reg).IncStatusTransition("authorised")

	handler := handlers.NewConsentHandler(manager, cfg.Consent, logger)
	return SetupRouter(cfg, handler, health, reg, logger), manager
}

func baseConfig() *config.Config {
	return &config.Config{
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
		Consent: config.ConsentConfig{
			StatusMappings: config.ConsentStatusMappings{ActiveStatus: "authorised"},
		},
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig(), fakeHealth{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	r, _ = newTestRouter(t, baseConfig(), fakeHealth{err: errors.New("db down")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, baseConfig(), fakeHealth{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "consent_status_transitions_total")

	cfg := baseConfig()
	cfg.Metrics.Enabled = false
	r, _ = newTestRouter(t, cfg, fakeHealth{})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticConsentRoutesWinOverConsentID(t *testing.T) {
	r, manager := newTestRouter(t, baseConfig(), fakeHealth{})
	manager.EXPECT().GetConsentsEligibleForExpiration(gomock.Any(), []string{"authorised"}).
		Return([]models.DetailedConsentResource{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/consents/expirable", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuth(t *testing.T) {
	cfg := baseConfig()
	cfg.Security.BasicAuth = config.BasicAuthConfig{
		Enabled: true,
		Users:   []config.BasicAuthUser{{Username: "admin", Password: "secret"}},
	}
	r, manager := newTestRouter(t, cfg, fakeHealth{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/consents/c-1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	manager.EXPECT().GetDetailedConsent(gomock.Any(), "c-1").Return(&models.DetailedConsentResource{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/consents/c-1", nil)
	req.SetBasicAuth("admin", "secret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
