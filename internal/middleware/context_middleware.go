package middleware

import (
	"go-workforce/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxRequestIDLength = 64
)

// RequestID echoes a caller supplied X-Request-ID, or mints one, and puts it
// on both the gin and the standard context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLength {
			rid = uuid.NewString()
		}
		c.Set(string(ContextRequestID), rid)
		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Header(HeaderRequestID, rid)
		c.Next()
	}
}

// ContextLogger attaches a request-scoped logger carrying the request id,
// principal and company. It must run after AuthMiddleware.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString(string(ContextRequestID))
		if rid == "" {
			rid = uuid.NewString()
			c.Header(HeaderRequestID, rid)
		}

		pid := PrincipalID(c)
		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.Int64("principal_id", pid),
			zap.Int64("company_id", CompanyID(c)),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithPrincipalID(ctx, pid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
