package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripeProcessor_RejectsNonPositiveAmount(t *testing.T) {
	p := NewStripeProcessor("sk_test_dummy", "usd")

	for _, amount := range []int64{0, -100} {
		_, err := p.CreateChargeToken(context.Background(), amount)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "amount %d", amount)
	}
}

func TestDisabledProcessor(t *testing.T) {
	_, err := DisabledProcessor{}.CreateChargeToken(context.Background(), 100)

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4500), MinorUnits(45))
}
