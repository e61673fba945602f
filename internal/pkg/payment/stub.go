package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Stub fabricates intents locally. For development and tests only.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Name() string { return "stub" }

func (s *Stub) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := "pi_stub_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Amount:       amount,
		Currency:     currency,
	}, nil
}
