package kot_test

import (
	"github.com/ariefcatur/go-kot-pos/internal/kot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestPaymentGateHappyPath(t *testing.T) {
	g := kot.NewPaymentGate()
	assert.Equal(t, kot.PaymentUnpaid, g.State())

	require.NoError(t, g.SelectMethod(kot.MethodCard))
	require.NoError(t, g.SelectMethod(kot.MethodCash))
	assert.Equal(t, kot.PaymentMethodSelected, g.State())
	assert.Equal(t, kot.MethodCash, g.Method())

	require.NoError(t, g.Confirm())
	assert.True(t, g.Confirmed())
	assert.Equal(t, kot.MethodCash, g.Method())

	g.Reset()
	assert.Equal(t, kot.PaymentUnpaid, g.State())
	assert.Empty(t, g.Method())
}

func TestPaymentGateConfirmNeedsMethod(t *testing.T) {
	g := kot.NewPaymentGate()
	err := g.Confirm()
	assert.ErrorIs(t, err, kot.ErrNoMethodSelected)
	assert.True(t, kot.IsValidation(err))

	require.NoError(t, g.SelectMethod(kot.MethodMobile))
	require.NoError(t, g.Confirm())
	assert.ErrorIs(t, g.Confirm(), kot.ErrNoMethodSelected)
}

func TestPaymentGateCancel(t *testing.T) {
	g := kot.NewPaymentGate()
	require.NoError(t, g.SelectMethod(kot.MethodCard))
	g.Cancel()
	assert.Equal(t, kot.PaymentUnpaid, g.State())

	require.NoError(t, g.SelectMethod(kot.MethodCard))
	require.NoError(t, g.Confirm())
	g.Cancel()
	assert.False(t, g.Confirmed())
	assert.Empty(t, g.Method())
}

func TestPaymentGateMethodFixedOnceConfirmed(t *testing.T) {
	g := kot.NewPaymentGate()
	require.NoError(t, g.SelectMethod(kot.MethodCard))
	require.NoError(t, g.Confirm())

	assert.ErrorIs(t, g.SelectMethod(kot.MethodCash), kot.ErrPaymentConfirmed)
	assert.Equal(t, kot.MethodCard, g.Method())
}

func TestPaymentGateUnknownMethod(t *testing.T) {
	g := kot.NewPaymentGate()
	assert.ErrorIs(t, g.SelectMethod("Cheque"), kot.ErrUnknownPaymentMethod)
	assert.Equal(t, kot.PaymentUnpaid, g.State())
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := kot.ParsePaymentMethod(" cash ")
	require.NoError(t, err)
	assert.Equal(t, kot.MethodCash, m)

	_, err = kot.ParsePaymentMethod("voucher")
	assert.ErrorIs(t, err, kot.ErrUnknownPaymentMethod)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, kot.CanTransition(kot.PaymentUnpaid, kot.PaymentMethodSelected))
	assert.False(t, kot.CanTransition(kot.PaymentUnpaid, kot.PaymentConfirmed))
	assert.True(t, kot.CanTransition(kot.PaymentMethodSelected, kot.PaymentConfirmed))
	assert.False(t, kot.CanTransition(kot.PaymentConfirmed, kot.PaymentMethodSelected))
}
