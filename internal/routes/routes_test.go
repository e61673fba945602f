package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/medcamp/internal/features/auth"
	"github.com/xyz-asif/medcamp/internal/features/camps"
	"github.com/xyz-asif/medcamp/internal/features/feedbacks"
	"github.com/xyz-asif/medcamp/internal/features/payments"
	"github.com/xyz-asif/medcamp/internal/features/registrations"
	"github.com/xyz-asif/medcamp/internal/features/users"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/testutil"
)

func handlers(h *testutil.Harness) Handlers {
	return Handlers{
		Auth:          auth.NewHandler(h.Tokens, nil),
		Camps:         camps.NewHandler(nil, nil),
		Users:         users.NewHandler(nil),
		Registrations: registrations.NewHandler(registrations.NewService(nil, nil, nil)),
		Payments:      payments.NewHandler(payments.NewService(nil, nil, nil, "", nil)),
		Feedbacks:     feedbacks.NewHandler(nil),
	}
}

func TestTable_Capabilities(t *testing.T) {
	h := testutil.New(t)

	want := map[string]access.Capability{
		"POST /jwt":                         access.Public,
		"GET /camps":                        access.Public,
		"GET /popularCamps":                 access.Public,
		"GET /camp/:id":                     access.Public,
		"POST /camps":                       access.Admin,
		"POST /camps/image":                 access.Admin,
		"PATCH /update-camp/:id":            access.Admin,
		"DELETE /delete-camp/:id":           access.Admin,
		"POST /users":                       access.Public,
		"GET /user/admin/:email":            access.Self,
		"GET /user/organizer/:email":        access.Self,
		"GET /user/:email":                  access.Self,
		"PATCH /user/:email":                access.Self,
		"GET /users":                        access.Admin,
		"PATCH /users/role/:id":             access.Admin,
		"DELETE /users/:id":                 access.Admin,
		"POST /registeredCamp":              access.Authenticated,
		"GET /registeredCamps/:email":       access.Self,
		"GET /registeredCamps":              access.Organizer,
		"PATCH /registeredCamp/confirm/:id": access.Organizer,
		"DELETE /registeredCamp/:id":        access.Admin,
		"POST /create-payment-intent":       access.Authenticated,
		"POST /payment":                     access.Authenticated,
		"GET /payments/:email":              access.Self,
		"GET /feedbacks":                    access.Public,
		"POST /feedback":                    access.Authenticated,
	}

	got := map[string]access.Capability{}
	for _, rt := range Table(handlers(h)) {
		key := rt.Method + " " + rt.Path
		_, dup := got[key]
		require.False(t, dup, "duplicate route %s", key)
		require.NotNil(t, rt.Handler, key)
		got[key] = rt.Capability
	}
	require.Equal(t, want, got)
}

func TestTable_ProtectedRoutesRejectMissingToken(t *testing.T) {
	h := testutil.New(t)
	table := Table(handlers(h))
	h.Guard.Mount(h.Router, table)

	for _, rt := range table {
		if rt.Capability == access.Public {
			continue
		}
		path := strings.NewReplacer(":id", "507f1f77bcf86cd799439011", ":email", "rina@example.com").Replace(rt.Path)

		w := h.Do(t, rt.Method, path, map[string]any{}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.Method, rt.Path)
	}
	require.Zero(t, h.Roles.Lookups())
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSystem(t *testing.T) {
	gin.SetMode(gin.TestMode)

	up := gin.New()
	System(up, pinger{})

	w := get(up, "/")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, banner, w.Body.String())

	require.Equal(t, http.StatusOK, get(up, "/health").Code)

	w = get(up, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")

	down := gin.New()
	System(down, pinger{err: errors.New("no reachable servers")})
	require.Equal(t, http.StatusServiceUnavailable, get(down, "/health").Code)
}
