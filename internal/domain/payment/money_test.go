//go:build unit

package payment_test

import (
	"testing"

	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	a := payment.MustParseMoney("0.10", "sek")
	b := payment.MustParseMoney("0.20", "SEK")

	sum := a.Add(b)
	assert.Equal(t, "0.30", sum.StringFixed())
	assert.Equal(t, "SEK", sum.Currency)
	assert.Equal(t, 0, sum.Cmp(payment.MustParseMoney("0.3", "SEK")))
	assert.Equal(t, int64(30), sum.MinorUnits())
	assert.True(t, a.Sub(b).IsNegative())
}

func TestMoney_CurrencyMismatchPanics(t *testing.T) {
	sek := payment.MustParseMoney("1.00", "SEK")
	eur := payment.MustParseMoney("1.00", "EUR")

	assert.Panics(t, func() { sek.Add(eur) })
	assert.Panics(t, func() { sek.Sub(eur) })
	assert.Panics(t, func() { sek.Cmp(eur) })
}

func TestParseMethod(t *testing.T) {
	m, err := payment.ParseMethod("card")
	require.NoError(t, err)
	assert.Equal(t, payment.MethodCard, m)

	_, err = payment.ParseMethod("crypto")
	assert.ErrorIs(t, err, errs.ErrMethodNotSupported)
}

func TestIntent_Cancel(t *testing.T) {
	intent := payment.Intent{Status: payment.StatusRequiresAction}

	canceled, err := intent.Cancel(fixedNow)
	require.NoError(t, err)
	assert.True(t, canceled.IsCanceled())
	assert.False(t, intent.IsCanceled(), "original must be untouched")

	_, err = canceled.Cancel(fixedNow)
	assert.ErrorIs(t, err, errs.ErrValidationFailed)
}

var fixedNow = mustTime("2026-03-01T10:00:00Z")
