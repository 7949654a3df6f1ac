package leave

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the worker and supervisor leave endpoints on an
// authenticated group.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/requests/leave")
	{
		leaves.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		leaves.GET("/my", handler.ListMine)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("/:id/cancel", middleware.RateLimitByUser(1, 5), handler.Cancel)
	}

	r.POST("/supervisor/approve-leave/:requestId",
		middleware.RateLimitByUser(2, 10),
		handler.Decide,
	)
}
