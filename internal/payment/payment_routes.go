package payment

import (
	"go-workforce/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	payments := r.Group("/requests/payment")
	{
		payments.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		payments.GET("/my", handler.ListMine)
		payments.GET("/:id", handler.GetByID)
		payments.POST("/:id/cancel", middleware.RateLimitByUser(1, 5), handler.Cancel)
	}

	supervisor := r.Group("/supervisor")
	{
		supervisor.POST("/approve-payment/:requestId", middleware.RateLimitByUser(2, 10), handler.Decide)
		supervisor.POST("/process-payment/:requestId",
			middleware.RateLimitByUser(2, 10),
			middleware.Idempotency(rdb),
			handler.Process,
		)
	}
}
