package queries

import (
	"context"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/infra"
	"checkout-core/internal/pkg/effect"
	"checkout-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type PaymentIntentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (payment.Intent, error)
}

type GetPaymentIntent struct {
	IntentID uuid.UUID
}

func (GetPaymentIntent) RequestName() string { return "payment_intent.get" }

type GetPaymentIntentHandler struct {
	intents PaymentIntentReader
}

func NewGetPaymentIntentHandler(intents PaymentIntentReader) *GetPaymentIntentHandler {
	return &GetPaymentIntentHandler{intents: intents}
}

// Handle returns the intent to its owner. Other callers get NotFound so intent ids
// cannot be discovered.
func (h *GetPaymentIntentHandler) Handle(req GetPaymentIntent, tc auth.TrustedContext) effect.Effect[PaymentIntentView] {
	return func(ctx context.Context) (PaymentIntentView, error) {
		intent, err := h.intents.FindByID(ctx, req.IntentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return PaymentIntentView{}, errs.Recode(err, errs.CodeNotFound, "payment intent not found")
			}
			return PaymentIntentView{}, errs.WithCode(err, errs.CodePersistenceFailed, "failed to load payment intent")
		}
		if !tc.CanActFor(intent.UserID) {
			return PaymentIntentView{}, errs.E(errs.CodeNotFound, "payment intent not found")
		}
		return NewPaymentIntentView(intent), nil
	}
}
