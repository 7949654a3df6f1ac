package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-workforce/internal/dashboard"
	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	dashboard.Service
	families []workflow.Family
	items    []dashboard.PendingItem
}

func (s *stubService) PendingSummary(context.Context, int64) (dashboard.PendingSummary, error) {
	return dashboard.PendingSummary{Leave: 2, Material: 1, Total: 3}, nil
}

func (s *stubService) PendingList(_ context.Context, _ int64, family workflow.Family) ([]dashboard.PendingItem, error) {
	s.families = append(s.families, family)
	items := make([]dashboard.PendingItem, 0, len(s.items))
	return append(items, s.items...), nil
}

func (s *stubService) PendingByFamily(_ context.Context, _ int64, family workflow.Family) (dashboard.FamilyPending, error) {
	s.families = append(s.families, family)
	return dashboard.FamilyPending{Requests: []dashboard.PendingItem{}}, nil
}

func newRouter(svc dashboard.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	api := r.Group("", func(c *gin.Context) {
		c.Set("principal_id", superPrincipal)
		c.Next()
	})
	dashboard.RegisterRoutes(api, dashboard.NewHandler(svc))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDashboardHandler(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w := get(r, "/supervisor/pending-summary")
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, map[string]int64{"leave": 2, "advance": 0, "medical_claim": 0, "material": 1, "tool": 0, "total": 3}, env.Data)

	assert.Equal(t, http.StatusOK, get(r, "/supervisor/pending-requests?family=advance").Code)
	assert.Equal(t, http.StatusOK, get(r, "/supervisor/pending-requests").Code)
	assert.Equal(t, http.StatusOK, get(r, "/supervisor/pending-medical-claim-requests").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/supervisor/pending-requests?family=overtime").Code)

	assert.Equal(t, []workflow.Family{workflow.FamilyPayment, "", workflow.FamilyMedicalClaim}, svc.families)
}

func TestDashboardHandler_ListPage(t *testing.T) {
	svc := &stubService{}
	for id := int64(5); id >= 1; id-- {
		svc.items = append(svc.items, dashboard.PendingItem{Family: workflow.FamilyLeave, ID: id})
	}
	r := newRouter(svc)

	var env struct {
		Data []dashboard.PendingItem `json:"data"`
		Meta *struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"totalPages"`
			Page       int   `json:"page"`
		} `json:"meta"`
	}

	w := get(r, "/supervisor/pending-requests?page=2&page_size=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, int64(3), env.Data[0].ID)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(5), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)

	env.Meta = nil
	w = get(r, "/supervisor/pending-requests")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 5)
	assert.Nil(t, env.Meta)
}
