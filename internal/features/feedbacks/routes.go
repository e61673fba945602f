package feedbacks

import (
	"net/http"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

func Routes(h *Handler) []access.Route {
	return []access.Route{
		{Method: http.MethodGet, Path: "/feedbacks", Capability: access.Public, Handler: h.List},
		{Method: http.MethodPost, Path: "/feedback", Capability: access.Authenticated, Handler: h.Create},
	}
}
