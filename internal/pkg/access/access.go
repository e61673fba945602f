// Package access describes who may call a route. Routes carry a Capability as data and
// a single evaluator in the middleware package enforces it.
package access

import (
	"github.com/gin-gonic/gin"
)

type Capability int

const (
	// Public routes skip token verification entirely.
	Public Capability = iota
	// Authenticated routes need a valid token and nothing else.
	Authenticated
	// Self routes need the :email path parameter to match the token email. Admins pass.
	Self
	// Organizer routes need role organizer or admin.
	Organizer
	// Admin routes need role admin.
	Admin
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Self:
		return "self"
	case Organizer:
		return "organizer"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// NeedsToken reports whether the capability requires token verification.
func (c Capability) NeedsToken() bool {
	return c != Public
}

// NeedsRole reports whether the capability requires a role lookup after the token check.
func (c Capability) NeedsRole() bool {
	return c == Self || c == Organizer || c == Admin
}

// Roles stored on user records.
const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
	RoleAdmin       = "admin"
)

// ValidRole reports whether role is one of the stored roles.
func ValidRole(role string) bool {
	switch role {
	case RoleParticipant, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// Allows reports whether a caller holding role satisfies a role-gated capability.
// Self is decided separately because it also depends on the request path.
func (c Capability) Allows(role string) bool {
	switch c {
	case Admin:
		return role == RoleAdmin
	case Organizer:
		return role == RoleOrganizer || role == RoleAdmin
	case Self:
		return ValidRole(role)
	default:
		return true
	}
}

// OwnerParam is the path parameter compared against the token email on Self routes.
const OwnerParam = "email"

// Route is one registered endpoint.
type Route struct {
	Method     string
	Path       string
	Capability Capability
	Handler    gin.HandlerFunc
}
