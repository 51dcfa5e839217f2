package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wso2/ob-consent-mgt/internal/utils"
)

// CorrelationIDHeader is echoed on every response
const CorrelationIDHeader = "X-Correlation-ID"

var correlationHeaders = []string{CorrelationIDHeader, "X-Request-ID", "X-Trace-ID"}

// CorrelationID reuses the caller's correlation ID or generates one
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(utils.CorrelationIDKey, correlationID)
		c.Request = c.Request.WithContext(utils.WithCorrelationID(c.Request.Context(), correlationID))
		c.Header(CorrelationIDHeader, correlationID)
		c.Next()
	}
}

func extractCorrelationID(c *gin.Context) string {
	for _, header := range correlationHeaders {
		if id := c.GetHeader(header); id != "" {
			return id
		}
	}
	return ""
}

// ClientContext stores the calling client and organization.
// The standard 'tpp-client-id' header wins over the legacy 'client-id'.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if orgID := c.GetHeader("org-id"); orgID != "" {
			c.Set(utils.OrgIDKey, orgID)
		}
		clientID := c.GetHeader("tpp-client-id")
		if clientID == "" {
			clientID = c.GetHeader("client-id")
		}
		if clientID != "" {
			c.Set(utils.ClientIDKey, clientID)
		}
		c.Next()
	}
}
