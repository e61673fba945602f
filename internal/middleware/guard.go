package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/response"
	"github.com/xyz-asif/medcamp/internal/pkg/token"
)

// RoleResolver looks up the stored role for an email. An unknown email yields "" and no error.
type RoleResolver interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// Guard turns route capabilities into middleware chains.
type Guard struct {
	tokens *token.Service
	roles  RoleResolver
}

func NewGuard(tokens *token.Service, roles RoleResolver) *Guard {
	return &Guard{tokens: tokens, roles: roles}
}

// Chain returns the handlers that must run before a route with the given capability.
func (g *Guard) Chain(capability access.Capability) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if capability.NeedsToken() {
		chain = append(chain, Auth(g.tokens))
	}
	if capability.NeedsRole() {
		chain = append(chain, g.Require(capability))
	}
	return chain
}

// Mount registers every route on r behind its capability chain.
func (g *Guard) Mount(r gin.IRoutes, routes []access.Route) {
	for _, rt := range routes {
		handlers := append(g.Chain(rt.Capability), rt.Handler)
		r.Handle(rt.Method, rt.Path, handlers...)
	}
}

// Require evaluates a role-gated capability. It must run after Auth.
func (g *Guard) Require(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := CurrentEmail(c)
		if email == "" {
			response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		role, err := g.roles.RoleOf(c.Request.Context(), email)
		if err != nil {
			logger.Error().Err(err).Str("email", email).Msg("role lookup failed")
			response.DatabaseError(c, "Failed to verify access")
			c.Abort()
			return
		}

		if !capability.Allows(role) {
			response.AuthorizationError(c, "Access denied")
			c.Abort()
			return
		}

		if capability == access.Self && role != access.RoleAdmin {
			owner := strings.ToLower(strings.TrimSpace(c.Param(access.OwnerParam)))
			if owner != email {
				response.AuthorizationError(c, "Access denied")
				c.Abort()
				return
			}
		}

		c.Set(ContextRole, role)
		c.Next()
	}
}
