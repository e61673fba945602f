package users

import (
	"net/http"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

func Routes(h *Handler) []access.Route {
	return []access.Route{
		{Method: http.MethodPost, Path: "/users", Capability: access.Public, Handler: h.Create},
		{Method: http.MethodGet, Path: "/user/admin/:email", Capability: access.Self, Handler: h.IsAdmin},
		{Method: http.MethodGet, Path: "/user/organizer/:email", Capability: access.Self, Handler: h.IsOrganizer},
		{Method: http.MethodGet, Path: "/user/:email", Capability: access.Self, Handler: h.Profile},
		{Method: http.MethodPatch, Path: "/user/:email", Capability: access.Self, Handler: h.UpdateProfile},
		{Method: http.MethodGet, Path: "/users", Capability: access.Admin, Handler: h.List},
		{Method: http.MethodPatch, Path: "/users/role/:id", Capability: access.Admin, Handler: h.UpdateRole},
		{Method: http.MethodDelete, Path: "/users/:id", Capability: access.Admin, Handler: h.Delete},
	}
}
