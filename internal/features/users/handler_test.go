package users

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	"github.com/xyz-asif/medcamp/internal/testutil"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type memStore struct {
	mu    sync.Mutex
	users []User
	// raceOnCreate makes the next GetByEmail miss so Create hits the unique index.
	raceOnCreate bool
}

func (m *memStore) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	m.users = append(m.users, *user)
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raceOnCreate {
		m.raceOnCreate = false
		return nil, nil
	}
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(_ context.Context, search string, page pagination.Params) ([]User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []User{}
	for _, u := range m.users {
		if search == "" || strings.Contains(u.Email, search) || strings.Contains(u.Name, search) {
			out = append(out, u)
		}
	}
	total := int64(len(out))
	start := int(page.Skip())
	if start > len(out) {
		start = len(out)
	}
	end := start + page.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *memStore) UpdateProfile(_ context.Context, email string, fields bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			if v, ok := fields["name"].(string); ok {
				m.users[i].Name = v
			}
			if v, ok := fields["image"].(string); ok {
				m.users[i].Image = v
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) UpdateRole(_ context.Context, id primitive.ObjectID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].Role = role
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) add(email, role string) User {
	u := User{ID: primitive.NewObjectID(), Email: email, Name: strings.Split(email, "@")[0], Role: role}
	m.users = append(m.users, u)
	return u
}

func setup(t *testing.T) (*testutil.Harness, *memStore) {
	store := &memStore{}
	return testutil.New(t, Routes(NewHandler(store))), store
}

func TestCreate_NewUserIsParticipant(t *testing.T) {
	h, store := setup(t)

	w := h.Do(t, http.MethodPost, "/users", map[string]any{"email": "Rina@Example.com", "name": "Rina"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := testutil.Decode(t, w)
	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["insertedId"])

	require.Len(t, store.users, 1)
	require.Equal(t, "rina@example.com", store.users[0].Email)
	require.Equal(t, access.RoleParticipant, store.users[0].Role)
}

func TestCreate_ExistingEmailWelcomesBack(t *testing.T) {
	h, store := setup(t)
	store.add("rina@example.com", access.RoleOrganizer)

	w := h.Do(t, http.MethodPost, "/users", map[string]any{"email": "rina@example.com", "role": "admin"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := testutil.Decode(t, w)
	require.Equal(t, "welcome back", body["message"])
	data := body["data"].(map[string]any)
	require.Contains(t, data, "insertedId")
	require.Nil(t, data["insertedId"])

	require.Len(t, store.users, 1)
	require.Equal(t, access.RoleOrganizer, store.users[0].Role)
}

func TestCreate_ConcurrentDuplicateWelcomesBack(t *testing.T) {
	h, store := setup(t)
	store.add("rina@example.com", access.RoleParticipant)
	store.raceOnCreate = true

	w := h.Do(t, http.MethodPost, "/users", map[string]any{"email": "rina@example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, testutil.Decode(t, w)["data"].(map[string]any)["insertedId"])
	require.Len(t, store.users, 1)
}

func TestCreate_InvalidEmail(t *testing.T) {
	h, store := setup(t)

	w := h.Do(t, http.MethodPost, "/users", map[string]any{"email": "not-an-email"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, store.users)
}

func TestRoleChecks(t *testing.T) {
	h, store := setup(t)
	store.add("boss@camp.org", access.RoleAdmin)
	store.add("org@camp.org", access.RoleOrganizer)

	admin := h.User(t, "boss@camp.org", access.RoleAdmin)
	organizer := h.User(t, "org@camp.org", access.RoleOrganizer)

	var got map[string]bool
	w := h.Do(t, http.MethodGet, "/user/admin/boss@camp.org", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &got)
	require.True(t, got["admin"])

	w = h.Do(t, http.MethodGet, "/user/organizer/org@camp.org", nil, organizer)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &got)
	require.True(t, got["organizer"])

	got = nil
	w = h.Do(t, http.MethodGet, "/user/admin/org@camp.org", nil, organizer)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &got)
	require.False(t, got["admin"])

	// someone else's email
	w = h.Do(t, http.MethodGet, "/user/admin/boss@camp.org", nil, organizer)
	require.Equal(t, http.StatusForbidden, w.Code)

	// admins may look anyone up
	w = h.Do(t, http.MethodGet, "/user/organizer/org@camp.org", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.Do(t, http.MethodGet, "/user/admin/not-an-email", nil, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_EMAIL", testutil.Decode(t, w)["code"])
}

func TestRoleChecks_UnknownCallerForbidden(t *testing.T) {
	h, _ := setup(t)
	ghost := h.User(t, "ghost@camp.org", "")

	w := h.Do(t, http.MethodGet, "/user/admin/ghost@camp.org", nil, ghost)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProfile_ReadAndUpdate(t *testing.T) {
	h, store := setup(t)
	store.add("rina@example.com", access.RoleParticipant)
	bearer := h.User(t, "rina@example.com", access.RoleParticipant)

	w := h.Do(t, http.MethodPatch, "/user/rina@example.com", map[string]any{"name": "Rina A."}, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.Do(t, http.MethodGet, "/user/rina@example.com", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	var u User
	testutil.Data(t, w, &u)
	require.Equal(t, "Rina A.", u.Name)
	require.Equal(t, access.RoleParticipant, u.Role)

	w = h.Do(t, http.MethodPatch, "/user/rina@example.com", map[string]any{}, bearer)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminUserManagement(t *testing.T) {
	h, store := setup(t)
	store.add("boss@camp.org", access.RoleAdmin)
	target := store.add("rina@example.com", access.RoleParticipant)
	store.add("karim@example.com", access.RoleParticipant)
	admin := h.User(t, "boss@camp.org", access.RoleAdmin)

	w := h.Do(t, http.MethodGet, "/users?search=example&limit=1", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []User `json:"items"`
		Total int64  `json:"total"`
		Pages int    `json:"pages"`
	}
	testutil.Data(t, w, &page)
	require.Len(t, page.Items, 1)
	require.EqualValues(t, 2, page.Total)
	require.Equal(t, 2, page.Pages)

	w = h.Do(t, http.MethodPatch, "/users/role/"+target.ID.Hex(), map[string]any{"role": "superuser"}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = h.Do(t, http.MethodPatch, "/users/role/"+target.ID.Hex(), map[string]any{"role": access.RoleOrganizer}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, access.RoleOrganizer, store.users[1].Role)

	w = h.Do(t, http.MethodDelete, "/users/"+target.ID.Hex(), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.users, 2)

	w = h.Do(t, http.MethodDelete, "/users/"+target.ID.Hex(), nil, admin)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUserManagement_ForbiddenForParticipants(t *testing.T) {
	h, store := setup(t)
	target := store.add("rina@example.com", access.RoleParticipant)
	bearer := h.User(t, "rina@example.com", access.RoleParticipant)

	require.Equal(t, http.StatusForbidden, h.Do(t, http.MethodGet, "/users", nil, bearer).Code)
	w := h.Do(t, http.MethodPatch, "/users/role/"+target.ID.Hex(), map[string]any{"role": access.RoleAdmin}, bearer)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, access.RoleParticipant, store.users[0].Role)

	require.Equal(t, http.StatusUnauthorized, h.Do(t, http.MethodDelete, "/users/"+target.ID.Hex(), nil, "").Code)
}
