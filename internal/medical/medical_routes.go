package medical

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	claims := r.Group("/requests/medical-claim")
	{
		claims.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		claims.GET("/my", handler.ListMine)
		claims.GET("/:id", handler.GetByID)
		claims.POST("/:id/receipts", middleware.RateLimitByUser(1, 5), handler.AddReceipts)
		claims.POST("/:id/cancel", middleware.RateLimitByUser(1, 5), handler.Cancel)
	}

	supervisor := r.Group("/supervisor")
	{
		supervisor.POST("/approve-medical-claim/:requestId", middleware.RateLimitByUser(2, 10), handler.Decide)
		supervisor.POST("/process-medical-claim/:requestId",
			middleware.RateLimitByUser(2, 10),
			middleware.Idempotency(rdb),
			handler.Process,
		)
	}
}
