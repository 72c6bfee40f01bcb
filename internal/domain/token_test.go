package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaymentNative(t *testing.T) {
	plan, err := ResolvePayment(PaymentNative, NewAmount(1000), AcceptedToken{}, Amount{})
	require.NoError(t, err)

	assert.Equal(t, PaymentNative, plan.Method)
	assert.Equal(t, NativeAsset, plan.Asset)
	assert.Equal(t, "1000", plan.Price.String())
	assert.False(t, plan.NeedsApproval)
}

func TestResolvePaymentToken(t *testing.T) {
	token := AcceptedToken{
		Address:  "0xAbC123",
		Accepted: true,
		Price:    NewAmount(500),
	}

	plan, err := ResolvePayment(PaymentToken, NewAmount(1000), token, NewAmount(100))
	require.NoError(t, err)

	assert.Equal(t, PaymentToken, plan.Method)
	assert.Equal(t, "0xabc123", plan.Asset)
	assert.Equal(t, "500", plan.Price.String())
	assert.True(t, plan.NeedsApproval)

	plan, err = ResolvePayment(PaymentToken, NewAmount(1000), token, NewAmount(500))
	require.NoError(t, err)
	assert.False(t, plan.NeedsApproval, "an allowance covering the price needs no approval")
}

func TestResolvePaymentTokenRejections(t *testing.T) {
	_, err := ResolvePayment(PaymentToken, NewAmount(1000), AcceptedToken{Address: "0xabc"}, Amount{})
	assert.ErrorIs(t, err, ErrTokenNotAccepted)

	_, err = ResolvePayment(PaymentToken, NewAmount(1000), AcceptedToken{Address: "0xabc", Accepted: true}, Amount{})
	assert.ErrorIs(t, err, ErrPriceNotSet)
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0xabc123", NormalizeAddress("  0xAbC123 "))
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, IsZeroAddress(""))
	assert.True(t, IsZeroAddress("0x0"))
	assert.True(t, IsZeroAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsZeroAddress("0x00000000000000000000000000000000000000a1"))
}
