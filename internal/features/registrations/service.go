package registrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/medcamp/internal/database"
	"github.com/xyz-asif/medcamp/internal/features/camps"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/metrics"
	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

// Store is the registration persistence the service needs.
type Store interface {
	Create(ctx context.Context, reg *RegisteredCamp) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*RegisteredCamp, error)
	ListByEmail(ctx context.Context, email, search string) ([]RegisteredCamp, error)
	List(ctx context.Context, search string, page pagination.Params) ([]RegisteredCamp, int64, error)
	Confirm(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CampStore is the camp side of a registration: lookup plus the participant counter.
type CampStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*camps.Camp, error)
	IncrementParticipants(ctx context.Context, id primitive.ObjectID, delta int) error
}

type Service struct {
	store Store
	camps CampStore
	tx    database.Transactor
}

func NewService(store Store, campStore CampStore, tx database.Transactor) *Service {
	if tx == nil {
		tx = database.Sequential{}
	}
	return &Service{store: store, camps: campStore, tx: tx}
}

// Register records email's registration for the camp and bumps its participant count
// as one unit of work.
func (s *Service) Register(ctx context.Context, email string, req RegisterRequest) (*RegisteredCamp, error) {
	campID, err := primitive.ObjectIDFromHex(req.CampID)
	if err != nil {
		return nil, fmt.Errorf("camp id %q: %w", req.CampID, apperrors.ErrBadRequest)
	}

	camp, err := s.camps.GetByID(ctx, campID)
	if err != nil {
		return nil, err
	}
	if camp == nil {
		return nil, fmt.Errorf("camp %s: %w", campID.Hex(), apperrors.ErrNotFound)
	}

	var reg *RegisteredCamp
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// fresh value on every attempt; the driver may retry this func
		reg = &RegisteredCamp{
			CampID:                 camp.ID,
			CampName:               camp.Name,
			Fees:                   camp.Fees,
			Location:               camp.Location,
			HealthcareProfessional: camp.HealthcareProfessional,
			ParticipantEmail:       email,
			ParticipantName:        req.ParticipantName,
			Age:                    req.Age,
			Phone:                  req.Phone,
			Gender:                 req.Gender,
			EmergencyContact:       req.EmergencyContact,
			PaymentStatus:          PaymentUnpaid,
			ConfirmationStatus:     ConfirmationPending,
		}
		if err := s.store.Create(ctx, reg); err != nil {
			return err
		}
		if err := s.camps.IncrementParticipants(ctx, camp.ID, 1); err != nil {
			// without a real transaction the insert has to be undone by hand
			if derr := s.store.Delete(ctx, reg.ID); derr != nil {
				logger.Error().Err(derr).Str("registration_id", reg.ID.Hex()).Msg("undo registration insert")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Registrations.Inc()
	return reg, nil
}

// Cancel deletes the registration and gives its seat back to the camp.
func (s *Service) Cancel(ctx context.Context, id primitive.ObjectID) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		reg, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if reg == nil {
			return apperrors.ErrNotFound
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return err
		}
		return s.camps.IncrementParticipants(ctx, reg.CampID, -1)
	})
}

func (s *Service) ListByEmail(ctx context.Context, email, search string) ([]RegisteredCamp, error) {
	return s.store.ListByEmail(ctx, email, search)
}

func (s *Service) List(ctx context.Context, search string, page pagination.Params) ([]RegisteredCamp, int64, error) {
	return s.store.List(ctx, search, page)
}

func (s *Service) Confirm(ctx context.Context, id primitive.ObjectID) error {
	return s.store.Confirm(ctx, id)
}
