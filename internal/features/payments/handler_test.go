package payments

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/database"
	"github.com/xyz-asif/medcamp/internal/features/registrations"
	"github.com/xyz-asif/medcamp/internal/pkg/access"
	"github.com/xyz-asif/medcamp/internal/pkg/payment"
	"github.com/xyz-asif/medcamp/internal/testutil"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type memStore struct {
	mu       sync.Mutex
	payments []Payment
}

func (m *memStore) Insert(_ context.Context, p *Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payments {
		if existing.TransactionID == p.TransactionID {
			return apperrors.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	m.payments = append(m.payments, *p)
	return nil
}

func (m *memStore) GetByTransaction(_ context.Context, transactionID string) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.payments {
		if m.payments[i].TransactionID == transactionID {
			p := m.payments[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListByEmail(_ context.Context, email string) ([]Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Payment{}
	for _, p := range m.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

// lateStore misses the first lookup, as if another request inserted the
// transaction between the check and the insert.
type lateStore struct {
	*memStore
	missed bool
}

func (l *lateStore) GetByTransaction(ctx context.Context, transactionID string) (*Payment, error) {
	if !l.missed {
		l.missed = true
		return nil, nil
	}
	return l.memStore.GetByTransaction(ctx, transactionID)
}

type memRegs struct {
	mu   sync.Mutex
	regs map[primitive.ObjectID]*registrations.RegisteredCamp
}

func (m *memRegs) GetByID(_ context.Context, id primitive.ObjectID) (*registrations.RegisteredCamp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.regs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memRegs) MarkPaid(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.PaymentStatus = registrations.PaymentPaid
	return nil
}

func (m *memRegs) add(email string) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.regs[id] = &registrations.RegisteredCamp{
		ID:               id,
		CampID:           primitive.NewObjectID(),
		CampName:         "Eye Camp",
		Fees:             25,
		ParticipantEmail: email,
		PaymentStatus:    registrations.PaymentUnpaid,
	}
	return id
}

func (m *memRegs) status(id primitive.ObjectID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[id].PaymentStatus
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) CreateIntent(context.Context, int64, string) (*payment.Intent, error) {
	return nil, errors.New("card network down")
}

func setup(t *testing.T, provider payment.Provider) (*testutil.Harness, *memStore, *memRegs) {
	store := &memStore{}
	regs := &memRegs{regs: map[primitive.ObjectID]*registrations.RegisteredCamp{}}
	svc := NewService(store, regs, provider, "USD", database.Sequential{})
	return testutil.New(t, Routes(NewHandler(svc))), store, regs
}

func TestCreateIntent_MinorUnits(t *testing.T) {
	h, _, _ := setup(t, payment.NewStub())
	bearer := h.User(t, "rina@example.com", "")

	w := h.Do(t, http.MethodPost, "/create-payment-intent", map[string]any{"fees": 25.00}, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var intent IntentResponse
	testutil.Data(t, w, &intent)
	require.EqualValues(t, 2500, intent.Amount)
	require.Equal(t, "usd", intent.Currency)
	require.NotEmpty(t, intent.ClientSecret)
}

func TestCreateIntent_RejectsNonPositiveFees(t *testing.T) {
	h, _, _ := setup(t, payment.NewStub())
	bearer := h.User(t, "rina@example.com", "")

	for _, body := range []map[string]any{{"fees": 0}, {"fees": -5}, {}} {
		w := h.Do(t, http.MethodPost, "/create-payment-intent", body, bearer)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCreateIntent_ProviderFailureIsBadGateway(t *testing.T) {
	h, _, _ := setup(t, failingProvider{})
	bearer := h.User(t, "rina@example.com", "")

	w := h.Do(t, http.MethodPost, "/create-payment-intent", map[string]any{"fees": 10}, bearer)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCreateIntent_RequiresToken(t *testing.T) {
	h, _, _ := setup(t, payment.NewStub())

	w := h.Do(t, http.MethodPost, "/create-payment-intent", map[string]any{"fees": 10}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecord_Idempotent(t *testing.T) {
	h, store, regs := setup(t, payment.NewStub())
	bearer := h.User(t, "rina@example.com", "")
	regID := regs.add("rina@example.com")

	body := map[string]any{"registrationId": regID.Hex(), "transactionId": "pi_123"}

	w := h.Do(t, http.MethodPost, "/payment", body, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, registrations.PaymentPaid, regs.status(regID))

	w = h.Do(t, http.MethodPost, "/payment", body, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, registrations.PaymentPaid, regs.status(regID))
	require.Len(t, store.payments, 1)

	var p Payment
	testutil.Data(t, w, &p)
	require.Equal(t, "pi_123", p.TransactionID)
	require.Equal(t, float64(25), p.Fees)
}

func TestRecord_OwnershipAndExistence(t *testing.T) {
	h, store, regs := setup(t, payment.NewStub())
	other := h.User(t, "karim@example.com", "")
	regID := regs.add("rina@example.com")

	w := h.Do(t, http.MethodPost, "/payment", map[string]any{"registrationId": regID.Hex(), "transactionId": "pi_1"}, other)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, registrations.PaymentUnpaid, regs.status(regID))

	w = h.Do(t, http.MethodPost, "/payment", map[string]any{"registrationId": primitive.NewObjectID().Hex(), "transactionId": "pi_2"}, other)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = h.Do(t, http.MethodPost, "/payment", map[string]any{"registrationId": "bogus", "transactionId": "pi_3"}, other)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, store.payments)
}

func TestRecord_TransactionReusedAcrossRegistrations(t *testing.T) {
	h, store, regs := setup(t, payment.NewStub())
	bearer := h.User(t, "rina@example.com", "")
	first := regs.add("rina@example.com")
	second := regs.add("rina@example.com")

	w := h.Do(t, http.MethodPost, "/payment", map[string]any{"registrationId": first.Hex(), "transactionId": "pi_9"}, bearer)
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.Do(t, http.MethodPost, "/payment", map[string]any{"registrationId": second.Hex(), "transactionId": "pi_9"}, bearer)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, registrations.PaymentUnpaid, regs.status(second))
	require.Len(t, store.payments, 1)
}

func TestHistory_NewestFirstAndSelfOnly(t *testing.T) {
	h, store, _ := setup(t, payment.NewStub())
	rina := h.User(t, "rina@example.com", access.RoleParticipant)
	karim := h.User(t, "karim@example.com", access.RoleParticipant)

	now := time.Now()
	store.payments = []Payment{
		{ID: primitive.NewObjectID(), Email: "rina@example.com", TransactionID: "old", PaidAt: now.Add(-time.Hour)},
		{ID: primitive.NewObjectID(), Email: "rina@example.com", TransactionID: "new", PaidAt: now},
		{ID: primitive.NewObjectID(), Email: "karim@example.com", TransactionID: "other", PaidAt: now},
	}

	w := h.Do(t, http.MethodGet, "/payments/rina@example.com", nil, rina)
	require.Equal(t, http.StatusOK, w.Code)
	var history []Payment
	testutil.Data(t, w, &history)
	require.Len(t, history, 2)
	require.Equal(t, "new", history[0].TransactionID)

	w = h.Do(t, http.MethodGet, "/payments/rina@example.com", nil, karim)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecord_LostInsertRaceChecksOwner(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	regs := &memRegs{regs: map[primitive.ObjectID]*registrations.RegisteredCamp{}}
	alice := regs.add("alice@example.com")
	bob := regs.add("bob@example.com")
	require.NoError(t, store.Insert(ctx, &Payment{RegistrationID: alice, Email: "alice@example.com", TransactionID: "pi_T"}))

	svc := NewService(&lateStore{memStore: store}, regs, payment.NewStub(), "usd", database.Sequential{})
	p, created, err := svc.Record(ctx, "bob@example.com", RecordRequest{RegistrationID: bob.Hex(), TransactionID: "pi_T"})
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	require.Nil(t, p)
	require.False(t, created)
	require.Equal(t, registrations.PaymentUnpaid, regs.status(bob))
}

func TestRecord_LostInsertRaceSameRegistration(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	regs := &memRegs{regs: map[primitive.ObjectID]*registrations.RegisteredCamp{}}
	regID := regs.add("alice@example.com")
	require.NoError(t, store.Insert(ctx, &Payment{RegistrationID: regID, Email: "alice@example.com", TransactionID: "pi_T"}))

	svc := NewService(&lateStore{memStore: store}, regs, payment.NewStub(), "usd", database.Sequential{})
	p, created, err := svc.Record(ctx, "alice@example.com", RecordRequest{RegistrationID: regID.Hex(), TransactionID: "pi_T"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, regID, p.RegistrationID)
	require.Equal(t, registrations.PaymentPaid, regs.status(regID))
	require.Len(t, store.payments, 1)
}
