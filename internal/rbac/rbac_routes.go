package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the permission check on an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
	}
}
