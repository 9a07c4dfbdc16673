package provider

import (
	"context"
	"strings"

	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/clock"
)

const InvoiceName = "invoice"

// InvoiceProvider issues in-house invoice references. Nothing leaves the process.
type InvoiceProvider struct {
	clock clock.Clock
}

func NewInvoiceProvider(clk clock.Clock) *InvoiceProvider {
	return &InvoiceProvider{clock: clk}
}

func (p *InvoiceProvider) Name() string { return InvoiceName }

// CreateIntent derives the reference from the intent id, e.g. INV-20250301-1A2B3C4D.
func (p *InvoiceProvider) CreateIntent(_ context.Context, req payment.ProviderRequest) (payment.ProviderIntent, error) {
	id := strings.ToUpper(strings.ReplaceAll(req.IntentID.String(), "-", ""))
	return payment.ProviderIntent{
		Ref:    "INV-" + p.clock.Now().Format("20060102") + "-" + id[:8],
		Status: payment.StatusPending,
	}, nil
}

func (p *InvoiceProvider) CancelIntent(context.Context, string) error {
	return nil
}
