// ================== internal/middleware/auth.go ==================
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/token"
)

// Context keys set by the auth chain.
const (
	ContextEmail  = "email"
	ContextClaims = "claims"
	ContextRole   = "role"
)

// Auth verifies the bearer token and stores its claims on the context. It never touches the store.
func Auth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		// Support both "Bearer <token>" (case-insensitive) and raw token in header
		fields := strings.Fields(authHeader)
		var tokenString string
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			tokenString = fields[1]
		} else {
			tokenString = strings.TrimSpace(authHeader)
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		c.Set(ContextEmail, claims.Email)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// CurrentEmail returns the verified caller email, or "" on public routes.
func CurrentEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// CurrentClaims returns the verified claims, or nil on public routes.
func CurrentClaims(c *gin.Context) *token.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*token.Claims)
	return claims
}

// CurrentRole returns the caller role when a role check ran on this route.
func CurrentRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
