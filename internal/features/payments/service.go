package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/database"
	"github.com/xyz-asif/medcamp/internal/features/registrations"
	"github.com/xyz-asif/medcamp/internal/pkg/metrics"
	"github.com/xyz-asif/medcamp/internal/pkg/payment"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

type Store interface {
	Insert(ctx context.Context, p *Payment) error
	GetByTransaction(ctx context.Context, transactionID string) (*Payment, error)
	ListByEmail(ctx context.Context, email string) ([]Payment, error)
}

// RegistrationStore is the registration side of a payment.
type RegistrationStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*registrations.RegisteredCamp, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID) error
}

type Service struct {
	store    Store
	regs     RegistrationStore
	provider payment.Provider
	currency string
	tx       database.Transactor
}

func NewService(store Store, regs RegistrationStore, provider payment.Provider, currency string, tx database.Transactor) *Service {
	if tx == nil {
		tx = database.Sequential{}
	}
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		store:    store,
		regs:     regs,
		provider: provider,
		currency: strings.ToLower(currency),
		tx:       tx,
	}
}

// CreateIntent asks the provider for an intent covering fees, given in major units.
func (s *Service) CreateIntent(ctx context.Context, fees float64) (*IntentResponse, error) {
	amount, err := payment.ToMinorUnits(fees)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrBadRequest)
	}

	intent, err := s.provider.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%s intent: %v: %w", s.provider.Name(), err, apperrors.ErrUpstream)
	}

	metrics.PaymentIntents.WithLabelValues("created").Inc()
	return &IntentResponse{
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}

// Record stores the payment and marks the registration paid as one unit of work.
// Recording the same transaction again changes nothing and reports created=false.
func (s *Service) Record(ctx context.Context, email string, req RecordRequest) (*Payment, bool, error) {
	regID, err := primitive.ObjectIDFromHex(req.RegistrationID)
	if err != nil {
		return nil, false, fmt.Errorf("registration id %q: %w", req.RegistrationID, apperrors.ErrBadRequest)
	}

	reg, err := s.regs.GetByID(ctx, regID)
	if err != nil {
		return nil, false, err
	}
	if reg == nil {
		return nil, false, fmt.Errorf("registration %s: %w", regID.Hex(), apperrors.ErrNotFound)
	}
	if reg.ParticipantEmail != email {
		return nil, false, fmt.Errorf("registration %s: %w", regID.Hex(), apperrors.ErrForbidden)
	}

	txID := strings.TrimSpace(req.TransactionID)
	var (
		p       *Payment
		created bool
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// a failed write aborts a server transaction, so look before inserting
		existing, err := s.store.GetByTransaction(ctx, txID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.RegistrationID != reg.ID {
				return fmt.Errorf("transaction %s belongs to another registration: %w", txID, apperrors.ErrForbidden)
			}
			p, created = existing, false
		} else {
			p = &Payment{
				RegistrationID: reg.ID,
				CampID:         reg.CampID,
				CampName:       reg.CampName,
				Email:          email,
				Fees:           reg.Fees,
				TransactionID:  txID,
			}
			if err := s.store.Insert(ctx, p); err != nil {
				return err
			}
			created = true
		}
		return s.regs.MarkPaid(ctx, reg.ID)
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		// a concurrent request recorded the same transaction first
		created = false
		p, err = s.store.GetByTransaction(ctx, txID)
		switch {
		case err != nil:
		case p == nil || p.RegistrationID != reg.ID:
			p, err = nil, fmt.Errorf("transaction %s belongs to another registration: %w", txID, apperrors.ErrForbidden)
		default:
			err = s.regs.MarkPaid(ctx, reg.ID)
		}
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		metrics.Payments.Inc()
	}
	return p, created, nil
}

func (s *Service) History(ctx context.Context, email string) ([]Payment, error) {
	return s.store.ListByEmail(ctx, email)
}
