// Package testutil wires a gin engine with the real token service and guard for handler tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/token"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
)

const Secret = "test-secret"

// Roles is an in-memory RoleResolver that counts lookups.
type Roles struct {
	mu      sync.Mutex
	roles   map[string]string
	lookups int
	Err     error
}

func NewRoles() *Roles {
	return &Roles{roles: map[string]string{}}
}

func (r *Roles) Set(email, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[email] = role
}

func (r *Roles) RoleOf(_ context.Context, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	if r.Err != nil {
		return "", r.Err
	}
	return r.roles[email], nil
}

func (r *Roles) Lookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}

type Harness struct {
	Router *gin.Engine
	Tokens *token.Service
	Guard  *middleware.Guard
	Roles  *Roles
}

func New(t *testing.T, routes ...[]access.Route) *Harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Register()

	tokens := token.NewService(Secret, time.Hour)
	roles := NewRoles()
	guard := middleware.NewGuard(tokens, roles)

	r := gin.New()
	for _, set := range routes {
		guard.Mount(r, set)
	}

	return &Harness{Router: r, Tokens: tokens, Guard: guard, Roles: roles}
}

// User registers email with role and returns a bearer token for it.
func (h *Harness) User(t *testing.T, email, role string) string {
	t.Helper()
	if role != "" {
		h.Roles.Set(email, role)
	}
	signed, err := h.Tokens.Issue(email, "")
	require.NoError(t, err)
	return signed
}

// Do sends a JSON request. An empty bearer sends no Authorization header.
func (h *Harness) Do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	h.Router.ServeHTTP(w, req)
	return w
}

// Decode unmarshals the response envelope.
func Decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// Data returns the envelope's data field decoded into out.
func Data(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}
