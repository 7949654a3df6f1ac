package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/contextutil"
	"go-workforce/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errInvalidToken = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)
	errTokenExpired = apperror.New(apperror.CodeUnauthorized, "Token expired", http.StatusUnauthorized)
)

// AuthMiddleware verifies the HS256 access token and exposes the principal,
// company and role to handlers.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			errObj := errInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = errTokenExpired
			}
			response.Abort(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid token claims")
			return
		}

		principalID, ok := int64Claim(claims, "user_id")
		if !ok || principalID <= 0 {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "User ID not found in token")
			return
		}
		companyID, ok := int64Claim(claims, "company_id")
		if !ok || companyID <= 0 {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Company ID not found in token")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(string(ContextPrincipalID), principalID)
		c.Set(string(ContextCompanyID), companyID)
		c.Set(string(ContextRole), strings.ToUpper(role))
		c.Request = c.Request.WithContext(contextutil.WithPrincipalID(c.Request.Context(), principalID))

		c.Next()
	}
}

// int64Claim accepts both JSON numbers and numeric strings.
func int64Claim(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
