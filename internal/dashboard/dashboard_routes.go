package dashboard

import (
	"go-workforce/internal/workflow"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	supervisor := r.Group("/supervisor")
	{
		supervisor.GET("/pending-summary", handler.Summary)
		supervisor.GET("/pending-requests", handler.List)
		supervisor.GET("/pending-requests/export", handler.Export)
		for _, f := range workflow.Families {
			supervisor.GET("/pending-"+f.Slug()+"-requests", handler.ByFamily(f))
		}
	}
}
