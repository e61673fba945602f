package registrations

import (
	"net/http"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

func Routes(h *Handler) []access.Route {
	return []access.Route{
		{Method: http.MethodPost, Path: "/registeredCamp", Capability: access.Authenticated, Handler: h.Register},
		{Method: http.MethodGet, Path: "/registeredCamps/:email", Capability: access.Self, Handler: h.Mine},
		{Method: http.MethodGet, Path: "/registeredCamps", Capability: access.Organizer, Handler: h.List},
		{Method: http.MethodPatch, Path: "/registeredCamp/confirm/:id", Capability: access.Organizer, Handler: h.Confirm},
		{Method: http.MethodDelete, Path: "/registeredCamp/:id", Capability: access.Admin, Handler: h.Cancel},
	}
}
