package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
)

// Gin context keys populated by the middleware chain
const (
	CorrelationIDKey = "correlationID"
	ClientIDKey      = "clientID"
	OrgIDKey         = "orgID"
)

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.ErrorResponse{
		Code:    errCode,
		Message: message,
		Details: details,
	})
}

// SendServiceError renders a lifecycle error. Persistence causes are logged, never rendered.
func SendServiceError(c *gin.Context, logger *logrus.Logger, err error, operation string) {
	se := serviceerror.From(err, operation)
	if se.Type == serviceerror.ServerErrorType {
		logger.WithFields(logrus.Fields{
			"correlation_id": GetCorrelationIDFromContext(c),
			"operation":      operation,
		}).WithError(err).Error("Request failed")
	}
	SendErrorResponse(c, se.HTTPStatus(), se.Code, string(se.Kind), se.ErrorDescription)
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendNoContentResponse sends a 204 No Content response
func SendNoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendBadRequestError sends a 400 for a request that could not be decoded
func SendBadRequestError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusBadRequest, serviceerror.ErrValidation.Code,
		string(serviceerror.KindValidation), details)
}

// GetClientIDFromContext extracts client ID from context
func GetClientIDFromContext(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}

// GetOrgIDFromContext extracts organization ID from context
func GetOrgIDFromContext(c *gin.Context) string {
	return c.GetString(OrgIDKey)
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}
