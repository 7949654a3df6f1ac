package project

import (
	"go-workforce/internal/middleware"
	"go-workforce/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the directory endpoints on an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	projects := r.Group("/projects")
	{
		projects.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			handler.GetByID,
		)
		projects.PUT("/:id/supervisor",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProject, rbac.ActionAssign),
			handler.AssignSupervisor,
		)
	}
}
