package material

import (
	"go-workforce/internal/middleware"
	"go-workforce/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the same handlers twice, once per project-scoped family.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	for _, family := range []workflow.Family{workflow.FamilyMaterial, workflow.FamilyTool} {
		requests := r.Group("/requests/" + string(family))
		{
			requests.POST("",
				middleware.RateLimitByUser(1, 5),
				middleware.Idempotency(rdb),
				handler.Create(family),
			)
			requests.GET("/my", handler.ListMine(family))
			requests.GET("/:id", handler.GetByID(family))
			requests.POST("/:id/cancel", middleware.RateLimitByUser(1, 5), handler.Cancel(family))
		}

		supervisor := r.Group("/supervisor")
		{
			supervisor.POST("/approve-"+string(family)+"/:requestId", middleware.RateLimitByUser(2, 10), handler.Decide(family))
			supervisor.POST("/fulfill-"+string(family)+"/:requestId",
				middleware.RateLimitByUser(2, 10),
				middleware.Idempotency(rdb),
				handler.Fulfill(family),
			)
		}
	}
}
