package provider

import (
	"context"
	"strings"

	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/errs"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const StripeName = "stripe"

// PaymentIntentAPI is the part of the Stripe payment intent client we call.
type PaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
}

type StripeProvider struct {
	intents PaymentIntentAPI
}

func NewStripeProvider(intents PaymentIntentAPI) *StripeProvider {
	return &StripeProvider{intents: intents}
}

func NewStripeClient(secretKey string) PaymentIntentAPI {
	return client.New(secretKey, nil).PaymentIntents
}

func (p *StripeProvider) Name() string { return StripeName }

func (p *StripeProvider) CreateIntent(ctx context.Context, req payment.ProviderRequest) (payment.ProviderIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount.MinorUnits()),
		Currency: stripe.String(strings.ToLower(req.Amount.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("intent_id", req.IntentID.String())
	params.AddMetadata("cart_id", req.CartID.String())
	params.AddMetadata("user_id", req.UserID.String())
	params.SetIdempotencyKey(providerIdempotencyKey(req))

	pi, err := p.intents.New(params)
	if err != nil {
		return payment.ProviderIntent{}, errs.Wrap(err, "stripe: create payment intent")
	}
	return payment.ProviderIntent{
		Ref:          pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       statusFromStripe(pi.Status),
	}, nil
}

func (p *StripeProvider) CancelIntent(ctx context.Context, ref string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if _, err := p.intents.Cancel(ref, params); err != nil {
		return errs.Wrap(err, "stripe: cancel payment intent")
	}
	return nil
}

// providerIdempotencyKey is unique per attempt. Stripe rejects a reused key whose
// parameters differ, and every attempt carries its own intent_id in metadata, so a
// fresh attempt after an abandoned or expired lock needs a fresh key. Network
// retries within one attempt still share it.
func providerIdempotencyKey(req payment.ProviderRequest) string {
	return "payment_intent:" + req.IntentID.String()
}

func statusFromStripe(s stripe.PaymentIntentStatus) payment.Status {
	switch s {
	case stripe.PaymentIntentStatusCanceled:
		return payment.StatusCanceled
	case stripe.PaymentIntentStatusProcessing, stripe.PaymentIntentStatusSucceeded:
		return payment.StatusPending
	default:
		return payment.StatusRequiresAction
	}
}
