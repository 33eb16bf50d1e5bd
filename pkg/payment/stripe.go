package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")
	ErrNotConfigured = errors.New("payment processor is not configured")
)

// Processor exchanges an amount for an opaque token the client uses to
// complete the charge with the processor.
type Processor interface {
	CreateChargeToken(ctx context.Context, amount int64) (string, error)
}

type StripeProcessor struct {
	api      *client.API
	currency string
}

func NewStripeProcessor(secretKey, currency string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{api: api, currency: currency}
}

// CreateChargeToken creates a card PaymentIntent and returns its client secret.
func (p *StripeProcessor) CreateChargeToken(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(p.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

// DisabledProcessor is used when no processor key is configured.
type DisabledProcessor struct{}

func (DisabledProcessor) CreateChargeToken(context.Context, int64) (string, error) {
	return "", ErrNotConfigured
}

// MinorUnits converts a whole-unit price into minor units (cents).
func MinorUnits(price int64) int64 {
	return price * 100
}
