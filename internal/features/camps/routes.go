package camps

import (
	"net/http"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
)

// Routes lists the camp endpoints with the capability each requires.
func Routes(h *Handler) []access.Route {
	return []access.Route{
		{Method: http.MethodGet, Path: "/camps", Capability: access.Public, Handler: h.List},
		{Method: http.MethodGet, Path: "/popularCamps", Capability: access.Public, Handler: h.Popular},
		{Method: http.MethodGet, Path: "/camp/:id", Capability: access.Public, Handler: h.Get},
		{Method: http.MethodPost, Path: "/camps", Capability: access.Admin, Handler: h.Create},
		{Method: http.MethodPost, Path: "/camps/image", Capability: access.Admin, Handler: h.UploadImage},
		{Method: http.MethodPatch, Path: "/update-camp/:id", Capability: access.Admin, Handler: h.Update},
		{Method: http.MethodDelete, Path: "/delete-camp/:id", Capability: access.Admin, Handler: h.Delete},
	}
}
