package middleware

import "github.com/gin-gonic/gin"

type ContextKey string

const (
	ContextPrincipalID ContextKey = "principal_id"
	ContextCompanyID   ContextKey = "company_id"
	ContextRole        ContextKey = "role"
	ContextRequestID   ContextKey = "request_id"
)

// PrincipalID returns the authenticated user id set by AuthMiddleware.
func PrincipalID(c *gin.Context) int64 {
	return c.GetInt64(string(ContextPrincipalID))
}

func CompanyID(c *gin.Context) int64 {
	return c.GetInt64(string(ContextCompanyID))
}

func Role(c *gin.Context) string {
	return c.GetString(string(ContextRole))
}
