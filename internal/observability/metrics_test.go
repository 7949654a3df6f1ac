package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-workforce/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(observability.GinMiddleware())
	r.GET("/projects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/projects/:id", "200"))
	for _, path := range []string{"/projects/1", "/projects/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(observability.HTTPRequestsTotal.WithLabelValues("GET", "/projects/:id", "200"))

	assert.Equal(t, 2.0, after-before)
}

func TestRecordTransition(t *testing.T) {
	c := observability.ApprovalTransitionsTotal.WithLabelValues("leave", "approved")
	before := testutil.ToFloat64(c)
	observability.RecordTransition("leave", "approved")
	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
}

func TestHandler_Exposes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observability.RecordNotification("redis", "sent")

	r := gin.New()
	r.GET("/metrics", observability.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "workforce_notifications_total")
}
