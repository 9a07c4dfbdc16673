package provider

import (
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/commands"
)

type Registry struct {
	providers map[payment.Method]commands.PaymentProvider
}

func NewRegistry(card *StripeProvider, invoice *InvoiceProvider) *Registry {
	return &Registry{providers: map[payment.Method]commands.PaymentProvider{
		payment.MethodCard:    card,
		payment.MethodInvoice: invoice,
	}}
}

func (r *Registry) Resolve(method payment.Method) (commands.PaymentProvider, error) {
	p, ok := r.providers[method]
	if !ok {
		return nil, errs.Ef(errs.CodeMethodNotSupported, "no payment provider for %s", method)
	}
	return p, nil
}
