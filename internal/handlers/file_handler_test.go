package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"go.uber.org/mock/gomock"

	"github.com/wso2/ob-consent-mgt/internal/models"
	"github.com/wso2/ob-consent-mgt/internal/service"
	"github.com/wso2/ob-consent-mgt/internal/serviceerror"
)

func (s *ConsentHandlerSuite) upload(path string, file []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(file))
	req.Header.Set("Content-Type", "application/octet-stream")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ConsentHandlerSuite) TestUploadConsentFile_PassesBodyAndStatuses() {
	file := []byte("%PDF-1.4 signed payment order")
	s.manager.EXPECT().StoreConsentFile(gomock.Any(), service.StoreConsentFileRequest{
		ConsentID:        "c-1",
		File:             file,
		ApplicableStatus: "awaitingUpload",
		NewStatus:        "awaitingAuthorisation",
		UserID:           "alice",
	}).Return(true, nil)

	w := s.upload("/consents/c-1/file?applicableStatus=awaitingUpload&status=awaitingAuthorisation&userId=alice", file)

	s.Equal(http.StatusCreated, w.Code)
	var resp models.ConsentFileResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("c-1", resp.ConsentID)
	s.Equal(len(file), resp.FileSize)
}

func (s *ConsentHandlerSuite) TestUploadConsentFile_WrongStatusConflicts() {
	s.manager.EXPECT().StoreConsentFile(gomock.Any(), gomock.Any()).
		Return(false, serviceerror.InvalidStateTransition("consent c-1 is not in status awaitingUpload"))

	w := s.upload("/consents/c-1/file?applicableStatus=awaitingUpload&status=awaitingAuthorisation", []byte("data"))

	s.Equal(http.StatusConflict, w.Code)
}

func (s *ConsentHandlerSuite) TestUploadConsentFile_OversizedBodyIsRejected() {
	w := s.upload("/consents/c-1/file?applicableStatus=a&status=b", make([]byte, MaxConsentFileSize+1))

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.Equal(string(serviceerror.KindValidation), s.decodeError(w).Message)
}

func (s *ConsentHandlerSuite) TestGetConsentFile_ReturnsRawBytes() {
	file := []byte("%PDF-1.4 signed payment order")
	s.manager.EXPECT().GetConsentFile(gomock.Any(), "c-1").
		Return(&models.ConsentFile{ConsentID: "c-1", ConsentFile: file}, nil)

	w := s.do(http.MethodGet, "/consents/c-1/file", nil, nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Equal(file, w.Body.Bytes())
}

func (s *ConsentHandlerSuite) TestGetConsentFile_MissingFileIsNotFound() {
	s.manager.EXPECT().GetConsentFile(gomock.Any(), "c-1").
		Return(nil, serviceerror.NotFound("consent file for c-1 not found"))

	w := s.do(http.MethodGet, "/consents/c-1/file", nil, nil)

	s.Equal(http.StatusNotFound, w.Code)
}
