package registrations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/features/camps"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	"github.com/xyz-asif/medcamp/internal/testutil"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type memCamps struct {
	mu    sync.Mutex
	camps map[primitive.ObjectID]*camps.Camp
	fail  error
}

func (m *memCamps) GetByID(_ context.Context, id primitive.ObjectID) (*camps.Camp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.camps[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memCamps) IncrementParticipants(_ context.Context, id primitive.ObjectID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	c, ok := m.camps[id]
	if !ok {
		if delta > 0 {
			return apperrors.ErrNotFound
		}
		return nil
	}
	if c.ParticipantCount+delta >= 0 {
		c.ParticipantCount += delta
	}
	return nil
}

func (m *memCamps) count(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.camps[id].ParticipantCount
}

type memStore struct {
	mu   sync.Mutex
	regs []RegisteredCamp
}

func (m *memStore) Create(_ context.Context, reg *RegisteredCamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.CampID == reg.CampID && r.ParticipantEmail == reg.ParticipantEmail {
			return apperrors.ErrDuplicate
		}
	}
	reg.ID = primitive.NewObjectID()
	m.regs = append(m.regs, *reg)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id primitive.ObjectID) (*RegisteredCamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.regs {
		if m.regs[i].ID == id {
			r := m.regs[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByEmail(_ context.Context, email, search string) ([]RegisteredCamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []RegisteredCamp{}
	for _, r := range m.regs {
		if r.ParticipantEmail == email && strings.Contains(strings.ToLower(r.CampName), strings.ToLower(search)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, _ string, _ pagination.Params) ([]RegisteredCamp, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]RegisteredCamp{}, m.regs...)
	return out, int64(len(out)), nil
}

func (m *memStore) Confirm(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.regs {
		if m.regs[i].ID == id {
			m.regs[i].ConfirmationStatus = ConfirmationConfirmed
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.regs {
		if m.regs[i].ID == id {
			m.regs = append(m.regs[:i], m.regs[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regs)
}

// countingTx runs fn directly and records how many units of work were opened.
type countingTx struct {
	mu    sync.Mutex
	units int
}

func (t *countingTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.units++
	t.mu.Unlock()
	return fn(ctx)
}

type fixture struct {
	h      *testutil.Harness
	store  *memStore
	camps  *memCamps
	tx     *countingTx
	campID primitive.ObjectID
}

func setup(t *testing.T) *fixture {
	campID := primitive.NewObjectID()
	f := &fixture{
		store: &memStore{},
		camps: &memCamps{camps: map[primitive.ObjectID]*camps.Camp{
			campID: {ID: campID, Name: "Eye Camp", Fees: 25, Location: "Town Hall"},
		}},
		tx:     &countingTx{},
		campID: campID,
	}
	f.h = testutil.New(t, Routes(NewHandler(NewService(f.store, f.camps, f.tx))))
	return f
}

func form(campID string) map[string]any {
	return map[string]any{
		"campId":           campID,
		"participantName":  "Rina",
		"age":              29,
		"phone":            "+8801700000000",
		"gender":           "female",
		"emergencyContact": "+8801800000000",
	}
}

func TestRegister_TwoParticipantsIncrementByTwo(t *testing.T) {
	f := setup(t)
	a := f.h.User(t, "a@example.com", access.RoleParticipant)
	b := f.h.User(t, "b@example.com", access.RoleParticipant)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, bearer := range []string{a, b} {
		wg.Add(1)
		go func(i int, bearer string) {
			defer wg.Done()
			codes[i] = f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), bearer).Code
		}(i, bearer)
	}
	wg.Wait()

	require.Equal(t, []int{http.StatusCreated, http.StatusCreated}, codes)
	require.Equal(t, 2, f.camps.count(f.campID))
	require.Equal(t, 2, f.store.len())
	require.Equal(t, 2, f.tx.units)
}

func TestRegister_SnapshotAndTokenEmail(t *testing.T) {
	f := setup(t)
	bearer := f.h.User(t, "Rina@Example.com", "")

	body := form(f.campID.Hex())
	body["participantEmail"] = "someone-else@example.com"
	w := f.h.Do(t, http.MethodPost, "/registeredCamp", body, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reg RegisteredCamp
	testutil.Data(t, w, &reg)
	require.Equal(t, "rina@example.com", reg.ParticipantEmail)
	require.Equal(t, "Eye Camp", reg.CampName)
	require.Equal(t, float64(25), reg.Fees)
	require.Equal(t, PaymentUnpaid, reg.PaymentStatus)
	require.Equal(t, ConfirmationPending, reg.ConfirmationStatus)
	require.Zero(t, f.h.Roles.Lookups())
}

func TestRegister_UnknownCamp(t *testing.T) {
	f := setup(t)
	bearer := f.h.User(t, "a@example.com", access.RoleParticipant)

	w := f.h.Do(t, http.MethodPost, "/registeredCamp", form(primitive.NewObjectID().Hex()), bearer)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Zero(t, f.store.len())

	w = f.h.Do(t, http.MethodPost, "/registeredCamp", form("nope"), bearer)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateConflicts(t *testing.T) {
	f := setup(t)
	bearer := f.h.User(t, "a@example.com", access.RoleParticipant)

	require.Equal(t, http.StatusCreated, f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), bearer).Code)
	w := f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), bearer)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, 1, f.camps.count(f.campID))
}

func TestRegister_CounterFailureUndoesInsert(t *testing.T) {
	f := setup(t)
	f.camps.fail = errors.New("write conflict")
	bearer := f.h.User(t, "a@example.com", access.RoleParticipant)

	w := f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), bearer)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Zero(t, f.store.len())
}

// stuckStore cannot delete, so a failed counter update leaves the row behind.
type stuckStore struct {
	*memStore
}

func (stuckStore) Delete(context.Context, primitive.ObjectID) error {
	return errors.New("connection reset")
}

func TestRegister_FailedUndoIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(&bytes.Buffer{}) })

	f := setup(t)
	f.camps.fail = errors.New("write conflict")
	store := stuckStore{memStore: f.store}
	svc := NewService(store, f.camps, f.tx)

	_, err := svc.Register(context.Background(), "a@example.com", RegisterRequest{
		CampID:           f.campID.Hex(),
		ParticipantName:  "Rina",
		Age:              29,
		Phone:            "+8801700000000",
		Gender:           "female",
		EmergencyContact: "+8801800000000",
	})
	require.Error(t, err)
	require.Equal(t, 1, f.store.len())

	out := buf.String()
	require.Contains(t, out, "undo registration insert")
	require.Contains(t, out, f.store.regs[0].ID.Hex())
	require.Contains(t, out, "connection reset")
}

func TestRegister_RequiresToken(t *testing.T) {
	f := setup(t)

	w := f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Zero(t, f.store.len())
}

func TestMine_OwnOnly(t *testing.T) {
	f := setup(t)
	a := f.h.User(t, "a@example.com", access.RoleParticipant)
	b := f.h.User(t, "b@example.com", access.RoleParticipant)
	f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), a)
	f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), b)

	w := f.h.Do(t, http.MethodGet, "/registeredCamps/a@example.com?search=eye", nil, a)
	require.Equal(t, http.StatusOK, w.Code)
	var regs []RegisteredCamp
	testutil.Data(t, w, &regs)
	require.Len(t, regs, 1)
	require.Equal(t, "a@example.com", regs[0].ParticipantEmail)

	w = f.h.Do(t, http.MethodGet, "/registeredCamps/a@example.com?search=dental", nil, a)
	require.Equal(t, []any{}, testutil.Decode(t, w)["data"])

	w = f.h.Do(t, http.MethodGet, "/registeredCamps/a@example.com", nil, b)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrganizerListAndConfirm(t *testing.T) {
	f := setup(t)
	a := f.h.User(t, "a@example.com", access.RoleParticipant)
	org := f.h.User(t, "org@camp.org", access.RoleOrganizer)
	f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), a)

	require.Equal(t, http.StatusForbidden, f.h.Do(t, http.MethodGet, "/registeredCamps", nil, a).Code)

	w := f.h.Do(t, http.MethodGet, "/registeredCamps", nil, org)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []RegisteredCamp `json:"items"`
		Total int64            `json:"total"`
	}
	testutil.Data(t, w, &page)
	require.EqualValues(t, 1, page.Total)

	id := page.Items[0].ID.Hex()
	w = f.h.Do(t, http.MethodPatch, "/registeredCamp/confirm/"+id, nil, org)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, ConfirmationConfirmed, f.store.regs[0].ConfirmationStatus)

	w = f.h.Do(t, http.MethodPatch, "/registeredCamp/confirm/"+primitive.NewObjectID().Hex(), nil, org)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancel_AdminDecrements(t *testing.T) {
	f := setup(t)
	a := f.h.User(t, "a@example.com", access.RoleParticipant)
	admin := f.h.User(t, "admin@camp.org", access.RoleAdmin)
	org := f.h.User(t, "org@camp.org", access.RoleOrganizer)

	w := f.h.Do(t, http.MethodPost, "/registeredCamp", form(f.campID.Hex()), a)
	var reg RegisteredCamp
	testutil.Data(t, w, &reg)
	require.Equal(t, 1, f.camps.count(f.campID))

	path := fmt.Sprintf("/registeredCamp/%s", reg.ID.Hex())
	require.Equal(t, http.StatusForbidden, f.h.Do(t, http.MethodDelete, path, nil, org).Code)

	w = f.h.Do(t, http.MethodDelete, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, f.camps.count(f.campID))
	require.Zero(t, f.store.len())

	w = f.h.Do(t, http.MethodDelete, path, nil, admin)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Zero(t, f.camps.count(f.campID))
}
