package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/ob-consent-mgt/internal/utils"
)

// GetAttributes handles GET /consents/:consentId/attributes.
// Without keys every attribute of the consent is returned.
func (h *ConsentHandler) GetAttributes(c *gin.Context) {
	attributes, err := h.manager.GetConsentAttributes(c.Request.Context(), c.Param("consentId"), queryList(c, "keys"))
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_attributes")
		return
	}
	utils.SendOKResponse(c, attributes)
}

// StoreAttributes handles PUT /consents/:consentId/attributes
func (h *ConsentHandler) StoreAttributes(c *gin.Context) {
	var attributes map[string]string
	if err := c.ShouldBindJSON(&attributes); err != nil {
		utils.SendBadRequestError(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.manager.StoreConsentAttributes(c.Request.Context(), c.Param("consentId"), attributes); err != nil {
		utils.SendServiceError(c, h.logger, err, "store_attributes")
		return
	}
	utils.SendNoContentResponse(c)
}

// DeleteAttributes handles DELETE /consents/:consentId/attributes?keys=
func (h *ConsentHandler) DeleteAttributes(c *gin.Context) {
	if err := h.manager.DeleteConsentAttributes(c.Request.Context(), c.Param("consentId"), queryList(c, "keys")); err != nil {
		utils.SendServiceError(c, h.logger, err, "delete_attributes")
		return
	}
	utils.SendNoContentResponse(c)
}

// FindByAttribute handles GET /consents/attributes?key=&value=.
// With a value the matching consent IDs are returned, otherwise the key's value per consent.
func (h *ConsentHandler) FindByAttribute(c *gin.Context) {
	key := c.Query("key")

	if value, ok := c.GetQuery("value"); ok {
		ids, err := h.manager.GetConsentIDsByAttribute(c.Request.Context(), key, value)
		if err != nil {
			utils.SendServiceError(c, h.logger, err, "find_consents_by_attribute")
			return
		}
		utils.SendOKResponse(c, gin.H{"consentIds": ids})
		return
	}

	values, err := h.manager.GetConsentAttributesByName(c.Request.Context(), key)
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_attributes_by_name")
		return
	}
	utils.SendOKResponse(c, gin.H{"attributes": values})
}
