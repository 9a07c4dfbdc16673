package pricing

import (
	"context"
	"fmt"

	"checkout-core/internal/domain/cart"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/config"

	"github.com/shopspring/decimal"
)

// Calculator prices a cart in three dependent stages: shipping, discounts, tax.
type Calculator interface {
	Shipping(ctx context.Context, snap cart.Snapshot) (payment.Money, error)
	Discounts(ctx context.Context, snap cart.Snapshot, subtotal payment.Money) (payment.Money, error)
	Tax(ctx context.Context, snap cart.Snapshot, taxable payment.Money) (payment.Money, error)
}

type RuleCalculator struct {
	Currency              string
	FlatShipping          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	DiscountPercent       decimal.Decimal
	VATRate               decimal.Decimal
}

func NewRuleCalculator(cfg config.Config) (*RuleCalculator, error) {
	p := cfg.Pricing
	parse := func(name, v string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid pricing %s %q: %w", name, v, err)
		}
		if d.IsNegative() {
			return decimal.Zero, fmt.Errorf("pricing %s must not be negative", name)
		}
		return d, nil
	}

	shipping, err := parse("flat shipping", p.FlatShipping)
	if err != nil {
		return nil, err
	}
	threshold, err := parse("free shipping threshold", p.FreeShippingThreshold)
	if err != nil {
		return nil, err
	}
	discount, err := parse("discount percent", p.DiscountPercent)
	if err != nil {
		return nil, err
	}
	vat, err := parse("vat rate", p.VATRate)
	if err != nil {
		return nil, err
	}
	if discount.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("pricing discount percent must be <= 100")
	}

	return &RuleCalculator{
		Currency:              p.Currency,
		FlatShipping:          shipping,
		FreeShippingThreshold: threshold,
		DiscountPercent:       discount,
		VATRate:               vat,
	}, nil
}

func (c *RuleCalculator) checkCurrency(snap cart.Snapshot) error {
	if snap.Currency != c.Currency {
		return fmt.Errorf("cart currency %s is not priced, expected %s", snap.Currency, c.Currency)
	}
	return nil
}

func (c *RuleCalculator) Shipping(_ context.Context, snap cart.Snapshot) (payment.Money, error) {
	if err := c.checkCurrency(snap); err != nil {
		return payment.Money{}, err
	}
	subtotal := snap.Subtotal()
	// threshold of zero disables free shipping
	if c.FreeShippingThreshold.IsPositive() && subtotal.Amount.GreaterThanOrEqual(c.FreeShippingThreshold) {
		return payment.Zero(c.Currency), nil
	}
	return payment.NewMoney(c.FlatShipping, c.Currency), nil
}

func (c *RuleCalculator) Discounts(_ context.Context, snap cart.Snapshot, subtotal payment.Money) (payment.Money, error) {
	if err := c.checkCurrency(snap); err != nil {
		return payment.Money{}, err
	}
	if c.DiscountPercent.IsZero() {
		return payment.Zero(c.Currency), nil
	}
	return subtotal.Mul(c.DiscountPercent.Div(decimal.NewFromInt(100))).Round(), nil
}

func (c *RuleCalculator) Tax(_ context.Context, snap cart.Snapshot, taxable payment.Money) (payment.Money, error) {
	if err := c.checkCurrency(snap); err != nil {
		return payment.Money{}, err
	}
	if taxable.IsNegative() {
		return payment.Money{}, fmt.Errorf("taxable amount %s is negative", taxable)
	}
	return taxable.Mul(c.VATRate).Round(), nil
}
