package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/wso2/ob-consent-mgt/internal/config"
	"github.com/wso2/ob-consent-mgt/internal/handlers"
	"github.com/wso2/ob-consent-mgt/internal/middleware"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SetupRouter configures all API routes
func SetupRouter(
	cfg *config.Config,
	consentHandler *handlers.ConsentHandler,
	health HealthChecker,
	gatherer prometheus.Gatherer,
	logger *logrus.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationID(),
		middleware.RequestLogger(logger),
		middleware.ClientContext(),
	)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := health.HealthCheck(ctx); err != nil {
			logger.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.Security.IsBasicAuthEnabled() {
		v1.Use(gin.BasicAuth(cfg.Security.Accounts()))
	}
	{
		consents := v1.Group("/consents")
		{
			consents.POST("", consentHandler.CreateConsent)
			consents.GET("", consentHandler.SearchConsents)
			consents.GET("/expirable", consentHandler.GetExpirableConsents)
			consents.GET("/attributes", consentHandler.FindByAttribute)
			consents.POST("/revoke", consentHandler.RevokeApplicableConsents)

			consents.GET("/:consentId", consentHandler.GetConsent)
			consents.DELETE("/:consentId", consentHandler.PurgeConsent)
			consents.PUT("/:consentId/status", consentHandler.UpdateConsentStatus)
			consents.POST("/:consentId/revoke", consentHandler.RevokeConsent)
			consents.POST("/:consentId/bind", consentHandler.BindAccounts)
			consents.POST("/:consentId/reauthorize", consentHandler.Reauthorize)
			consents.PUT("/:consentId/amend", consentHandler.AmendConsent)
			consents.GET("/:consentId/history", consentHandler.GetAmendmentHistory)
			consents.GET("/:consentId/audit", consentHandler.GetStatusAudit)
			consents.GET("/:consentId/authorizations", consentHandler.ListConsentAuthorizations)
			consents.GET("/:consentId/attributes", consentHandler.GetAttributes)
			consents.PUT("/:consentId/attributes", consentHandler.StoreAttributes)
			consents.DELETE("/:consentId/attributes", consentHandler.DeleteAttributes)
			consents.PUT("/:consentId/file", consentHandler.UploadConsentFile)
			consents.GET("/:consentId/file", consentHandler.GetConsentFile)
		}

		authorizations := v1.Group("/authorizations")
		{
			authorizations.GET("/:authId", consentHandler.GetAuthorization)
			authorizations.PUT("/:authId/status", consentHandler.UpdateAuthorizationStatus)
			authorizations.PUT("/:authId/user", consentHandler.UpdateAuthorizationUser)
		}

		v1.GET("/consent-audits", consentHandler.SearchStatusAudit)
	}

	return router
}
