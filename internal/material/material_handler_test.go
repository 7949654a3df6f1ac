package material_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-workforce/internal/material"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/workflow"
	workflowerrors "go-workforce/internal/workflow/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	material.Service
	families []workflow.Family
	err      error
}

func (s *stubService) Create(_ context.Context, _ int64, family workflow.Family, _ material.CreateMaterialRequest) (material.MaterialResponse, error) {
	s.families = append(s.families, family)
	return material.MaterialResponse{RequestType: material.TypeOf(family)}, s.err
}

func (s *stubService) Decide(_ context.Context, _ int64, family workflow.Family, _ int64, _ material.DecideMaterialRequest) (material.DecisionResponse, error) {
	s.families = append(s.families, family)
	return material.DecisionResponse{}, s.err
}

func (s *stubService) Fulfill(_ context.Context, _ int64, family workflow.Family, _ int64, _ material.FulfillMaterialRequest) (material.MaterialResponse, error) {
	s.families = append(s.families, family)
	return material.MaterialResponse{}, s.err
}

func newRouter(svc material.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	api := r.Group("", func(c *gin.Context) {
		c.Set("principal_id", workerPrincipal)
		c.Next()
	})
	material.RegisterRoutes(api, material.NewHandler(svc), nil)
	return r
}

func post(r *gin.Engine, path, body string) int {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestMaterialHandler_RoutesCarryFamily(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	body := `{"project_id":1003,"item_name":"Drill","quantity":1}`
	assert.Equal(t, http.StatusCreated, post(r, "/requests/tool", body))
	assert.Equal(t, http.StatusCreated, post(r, "/requests/material", body))
	assert.Equal(t, http.StatusOK, post(r, "/supervisor/approve-tool/31", `{"action":"approve"}`))
	assert.Equal(t, http.StatusOK, post(r, "/supervisor/fulfill-material/31", ""))

	assert.Equal(t, []workflow.Family{
		workflow.FamilyTool,
		workflow.FamilyMaterial,
		workflow.FamilyTool,
		workflow.FamilyMaterial,
	}, svc.families)
}

func TestMaterialHandler_Validation(t *testing.T) {
	r := newRouter(&stubService{})

	assert.Equal(t, http.StatusBadRequest, post(r, "/requests/material", `{"project_id":1003,"item_name":"Drill","quantity":0}`))
	assert.Equal(t, http.StatusBadRequest, post(r, "/requests/material", `{"project_id":1003,"item_name":"Drill","quantity":2,"urgency":"ASAP"}`))
	assert.Equal(t, http.StatusBadRequest, post(r, "/supervisor/approve-material/x", `{"action":"approve"}`))
}

func TestMaterialHandler_ErrorMapping(t *testing.T) {
	r := newRouter(&stubService{err: workflowerrors.ErrNotSupervisor})
	assert.Equal(t, http.StatusForbidden, post(r, "/supervisor/approve-tool/31", `{"action":"approve"}`))

	r = newRouter(&stubService{err: workflowerrors.ErrAlreadyDecided})
	assert.Equal(t, http.StatusConflict, post(r, "/supervisor/approve-tool/31", `{"action":"reject"}`))
}
