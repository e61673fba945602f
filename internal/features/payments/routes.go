package payments

import (
	"net/http"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

func Routes(h *Handler) []access.Route {
	return []access.Route{
		{Method: http.MethodPost, Path: "/create-payment-intent", Capability: access.Authenticated, Handler: h.CreateIntent},
		{Method: http.MethodPost, Path: "/payment", Capability: access.Authenticated, Handler: h.Record},
		{Method: http.MethodGet, Path: "/payments/:email", Capability: access.Self, Handler: h.History},
	}
}
