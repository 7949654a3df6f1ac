package medical_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-workforce/internal/medical"
	"go-workforce/internal/shared/apperror"
	workflowerrors "go-workforce/internal/workflow/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	medical.Service
	addReceipts func(principalID, id int64, files []*multipart.FileHeader) (medical.ClaimResponse, error)
	cancel      func(principalID, id int64, req medical.CancelClaimRequest) (medical.ClaimResponse, error)
}

func (s *stubService) AddReceipts(_ context.Context, principalID, id int64, files []*multipart.FileHeader) (medical.ClaimResponse, error) {
	return s.addReceipts(principalID, id, files)
}

func (s *stubService) Cancel(_ context.Context, principalID, id int64, req medical.CancelClaimRequest) (medical.ClaimResponse, error) {
	return s.cancel(principalID, id, req)
}

func newRouter(svc medical.Service, principalID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	api := r.Group("", func(c *gin.Context) {
		c.Set("principal_id", principalID)
		c.Next()
	})
	medical.RegisterRoutes(api, medical.NewHandler(svc), nil)
	return r
}

func TestMedicalHandler_AddReceipts(t *testing.T) {
	t.Run("passes uploaded files through", func(t *testing.T) {
		svc := &stubService{addReceipts: func(pid, id int64, files []*multipart.FileHeader) (medical.ClaimResponse, error) {
			assert.Equal(t, workerPrincipal, pid)
			assert.Equal(t, int64(7), id)
			require.Len(t, files, 1)
			assert.Equal(t, "clinic.pdf", files[0].Filename)
			return medical.ClaimResponse{ID: id}, nil
		}}

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("files", "clinic.pdf")
		require.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/requests/medical-claim/7/receipts", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		newRouter(svc, workerPrincipal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("json body is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/requests/medical-claim/7/receipts", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouter(&stubService{}, workerPrincipal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/requests/medical-claim/abc/receipts", nil)
		w := httptest.NewRecorder()
		newRouter(&stubService{}, workerPrincipal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMedicalHandler_Cancel(t *testing.T) {
	svc := &stubService{cancel: func(int64, int64, medical.CancelClaimRequest) (medical.ClaimResponse, error) {
		return medical.ClaimResponse{}, workflowerrors.ErrNotSubmitter
	}}
	req := httptest.NewRequest(http.MethodPost, "/requests/medical-claim/7/cancel", nil)
	w := httptest.NewRecorder()
	newRouter(svc, superPrincipal).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
