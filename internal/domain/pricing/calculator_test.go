//go:build unit

package pricing_test

import (
	"context"
	"testing"

	"checkout-core/internal/domain/cart"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/domain/pricing"
	"checkout-core/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(currency string, lines ...cart.Line) cart.Snapshot {
	return cart.Snapshot{ID: uuid.New(), UserID: uuid.New(), Currency: currency, Lines: lines}
}

func line(price string, qty int32) cart.Line {
	return cart.Line{SKU: "SKU-" + price, Quantity: qty, UnitPrice: payment.MustParseMoney(price, "SEK")}
}

func newCalculator(t *testing.T, mutate func(*config.PricingConfig)) *pricing.RuleCalculator {
	t.Helper()
	cfg := config.NewTestConfig()
	if mutate != nil {
		mutate(&cfg.Pricing)
	}
	calc, err := pricing.NewRuleCalculator(cfg)
	require.NoError(t, err)
	return calc
}

func TestRuleCalculator_Shipping(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator(t, nil)

	testCases := []struct {
		name string
		snap cart.Snapshot
		want string
	}{
		{name: "below threshold pays flat rate", snap: snapshot("SEK", line("100.00", 2)), want: "49.00"},
		{name: "at threshold ships free", snap: snapshot("SEK", line("250.00", 2)), want: "0.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Shipping(ctx, tc.snap)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed())
		})
	}

	_, err := calc.Shipping(ctx, snapshot("EUR"))
	assert.Error(t, err)
}

func TestRuleCalculator_DiscountsAndTax(t *testing.T) {
	ctx := context.Background()
	calc := newCalculator(t, func(p *config.PricingConfig) { p.DiscountPercent = "10" })
	snap := snapshot("SEK", line("80.00", 1))

	discounts, err := calc.Discounts(ctx, snap, snap.Subtotal())
	require.NoError(t, err)
	assert.Equal(t, "8.00", discounts.StringFixed())

	tax, err := calc.Tax(ctx, snap, payment.MustParseMoney("121.00", "SEK"))
	require.NoError(t, err)
	assert.Equal(t, "30.25", tax.StringFixed())

	_, err = calc.Tax(ctx, snap, payment.MustParseMoney("-1.00", "SEK"))
	assert.Error(t, err)
}

func TestNewRuleCalculator_RejectsBadConfig(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Pricing.VATRate = "abc"
	_, err := pricing.NewRuleCalculator(cfg)
	assert.Error(t, err)

	cfg = config.NewTestConfig()
	cfg.Pricing.DiscountPercent = "150"
	_, err = pricing.NewRuleCalculator(cfg)
	assert.Error(t, err)
}
