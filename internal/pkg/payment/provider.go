package payment

import (
	"context"
	"fmt"
	"math"
)

// Intent is the client-facing half of a provider payment intent.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Provider creates payment intents with an external processor.
type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

// ToMinorUnits converts a fee in major units (25.00) to minor units (2500), rounding half away from zero.
func ToMinorUnits(fees float64) (int64, error) {
	if math.IsNaN(fees) || math.IsInf(fees, 0) || fees <= 0 {
		return 0, fmt.Errorf("fees must be a positive amount, got %v", fees)
	}
	return int64(math.Round(fees * 100)), nil
}

type Options struct {
	Provider        string
	StripeSecretKey string
}

func NewProvider(opts Options) (Provider, error) {
	switch opts.Provider {
	case "stripe":
		return NewStripe(opts.StripeSecretKey)
	case "stub":
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", opts.Provider)
	}
}
