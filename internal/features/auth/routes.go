package auth

import (
	"net/http"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

func Routes(h *Handler) []access.Route {
	return []access.Route{
		{Method: http.MethodPost, Path: "/jwt", Capability: access.Public, Handler: h.IssueToken},
	}
}
