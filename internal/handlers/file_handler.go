package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/service"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
	"github.com/wso2/ob-consent-mgt/internal/utils"
)

// MaxConsentFileSize bounds an uploaded consent file
const MaxConsentFileSize = 10 << 20

// UploadConsentFile handles PUT /consents/:consentId/file.
// The request body is the file; query parameters applicableStatus, status and userId
// drive the status change that accompanies the upload.
func (h *ConsentHandler) UploadConsentFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxConsentFileSize)
	file, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.SendErrorResponse(c, http.StatusRequestEntityTooLarge, "CSE-4013", string(serviceerror.KindValidation),
				"consent file exceeds the maximum size")
			return
		}
		utils.SendBadRequestError(c, "failed to read consent file: "+err.Error())
		return
	}

	consentID := c.Param("consentId")
	_, err = h.manager.StoreConsentFile(c.Request.Context(), service.StoreConsentFileRequest{
		ConsentID:        consentID,
		File:             file,
		ApplicableStatus: c.Query("applicableStatus"),
		NewStatus:        c.Query("status"),
		UserID:           c.Query("userId"),
	})
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "store_consent_file")
		return
	}
	utils.SendCreatedResponse(c, models.ConsentFileResponse{ConsentID: consentID, FileSize: len(file)})
}

// GetConsentFile handles GET /consents/:consentId/file
func (h *ConsentHandler) GetConsentFile(c *gin.Context) {
	file, err := h.manager.GetConsentFile(c.Request.Context(), c.Param("consentId"))
	if err != nil {
		utils.SendServiceError(c, h.logger, err, "get_consent_file")
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(file.ConsentFile), file.ConsentFile)
}
