package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string) (*Stripe, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}, nil
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
