package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/utils"
)

// GetAuthorization handles GET /authorizations/:authId
func (h *ConsentHandler) GetAuthorization(c *gin.Context) {
	auth, err := h.manager.GetAuthorizationResource(c.Request.Context(), c.Param("authId"))
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_authorization")
		return
	}
	utils.SendOKResponse(c, auth)
}

// ListConsentAuthorizations handles GET /consents/:consentId/authorizations
func (h *ConsentHandler) ListConsentAuthorizations(c *gin.Context) {
	auths, err := h.manager.SearchAuthorizations(c.Request.Context(), models.AuthorizationSearchFilter{
		ConsentID: c.Param("consentId"),
		UserID:    c.Query("userId"),
	})
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "search_authorizations")
		return
	}
	utils.SendOKResponse(c, auths)
}

// UpdateAuthorizationStatus handles PUT /authorizations/:authId/status
func (h *ConsentHandler) UpdateAuthorizationStatus(c *gin.Context) {
	var body UpdateAuthorizationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	auth, err := h.manager.UpdateAuthorizationStatus(c.Request.Context(), c.Param("authId"), body.Status, body.ActionBy)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "update_authorization_status")
		return
	}
	utils.SendOKResponse(c, auth)
}

// UpdateAuthorizationUser handles PUT /authorizations/:authId/user
func (h *ConsentHandler) UpdateAuthorizationUser(c *gin.Context) {
	var body UpdateAuthorizationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.manager.UpdateAuthorizationUser(c.Request.Context(), c.Param("authId"), body.UserID); err != nil {
		utils.SendServiceError(c, h.logger, err, "update_authorization_user")
		return
	}
	utils.SendNoContentResponse(c)
}
