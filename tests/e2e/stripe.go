//go:build e2e

package e2e

import (
	"fmt"
	"sync"

	"github.com/stripe/stripe-go/v76"
)

// FakeStripe stands in for the Stripe payment intent API. It honours the
// Idempotency-Key the provider sends the way Stripe does: a repeated key with the
// same parameters returns the first intent, with different parameters it fails.
type FakeStripe struct {
	mu       sync.Mutex
	seq      int
	byKey    map[string]*stripe.PaymentIntent
	keyedBy  map[string]string
	canceled map[string]bool
	// Fail, when set, is returned by the next New call.
	Fail error
}

func NewFakeStripe() *FakeStripe {
	f := &FakeStripe{}
	f.Reset()
	return f
}

func (f *FakeStripe) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq = 0
	f.byKey = make(map[string]*stripe.PaymentIntent)
	f.keyedBy = make(map[string]string)
	f.canceled = make(map[string]bool)
	f.Fail = nil
}

func (f *FakeStripe) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Fail != nil {
		err := f.Fail
		f.Fail = nil
		return nil, err
	}

	key := ""
	if params.IdempotencyKey != nil {
		key = *params.IdempotencyKey
	}
	sig := fmt.Sprintf("%d|%s|%s", stripe.Int64Value(params.Amount), stripe.StringValue(params.Currency), params.Metadata["intent_id"])
	if pi, ok := f.byKey[key]; ok && key != "" {
		if f.keyedBy[key] != sig {
			return nil, &stripe.Error{
				Type: stripe.ErrorTypeIdempotency,
				Msg:  "Keys for idempotent requests can only be used with the same parameters they were first used with.",
			}
		}
		return pi, nil
	}

	f.seq++
	id := fmt.Sprintf("pi_e2e_%d", f.seq)
	pi := &stripe.PaymentIntent{
		ID:           id,
		Amount:       stripe.Int64Value(params.Amount),
		Currency:     stripe.Currency(stripe.StringValue(params.Currency)),
		ClientSecret: id + "_secret",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
	}
	if key != "" {
		f.byKey[key] = pi
		f.keyedBy[key] = sig
	}
	return pi, nil
}

func (f *FakeStripe) Cancel(id string, _ *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canceled[id] = true
	return &stripe.PaymentIntent{ID: id, Status: stripe.PaymentIntentStatusCanceled}, nil
}

func (f *FakeStripe) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}

func (f *FakeStripe) Canceled(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canceled[id]
}
