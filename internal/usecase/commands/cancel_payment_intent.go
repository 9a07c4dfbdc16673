package commands

import (
	"context"
	"log/slog"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/infra"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/effect"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/mediator"
	"checkout-core/internal/usecase/queries"

	"github.com/google/uuid"
)

const ScopePaymentIntentCancel = "payment_intent_cancel"

// CancelPaymentIntent is guarded by the dispatcher's idempotency behavior.
type CancelPaymentIntent struct {
	IntentID uuid.UUID
	Key      string
}

func (CancelPaymentIntent) RequestName() string      { return "payment_intent.cancel" }
func (r CancelPaymentIntent) IdempotencyKey() string { return r.Key }
func (CancelPaymentIntent) IdempotencyScope() string { return ScopePaymentIntentCancel }
func (r CancelPaymentIntent) Fingerprint() string    { return r.IntentID.String() }

type cancelPaymentIntentHandler struct {
	intents   IntentRepository
	providers ProviderResolver
	inventory Inventory
	events    EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewCancelPaymentIntentHandler(
	intents IntentRepository,
	providers ProviderResolver,
	inventory Inventory,
	events EventPublisher,
	clock clock.Clock,
	logger *slog.Logger,
) mediator.Handler[CancelPaymentIntent, queries.PaymentIntentView] {
	return &cancelPaymentIntentHandler{
		intents:   intents,
		providers: providers,
		inventory: inventory,
		events:    events,
		clock:     clock,
		logger:    logger,
	}
}

func (h *cancelPaymentIntentHandler) Handle(req CancelPaymentIntent, tc auth.TrustedContext) effect.Effect[queries.PaymentIntentView] {
	return func(ctx context.Context) (queries.PaymentIntentView, error) {
		intent, err := h.intents.FindByID(ctx, req.IntentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return queries.PaymentIntentView{}, errs.Recode(err, errs.CodeNotFound, "payment intent not found")
			}
			return queries.PaymentIntentView{}, errs.WithCode(err, errs.CodePersistenceFailed, "failed to load payment intent")
		}
		if !tc.CanActFor(intent.UserID) {
			return queries.PaymentIntentView{}, errs.E(errs.CodeForbidden, "not allowed to cancel this payment intent")
		}

		now := h.clock.Now()
		canceled, err := intent.Cancel(now)
		if err != nil {
			return queries.PaymentIntentView{}, err
		}

		provider, err := h.providers.Resolve(intent.Method)
		if err != nil {
			return queries.PaymentIntentView{}, errs.WithCode(err, errs.CodeMethodNotSupported, "payment method is not supported")
		}
		if err := provider.CancelIntent(ctx, intent.ProviderRef); err != nil {
			return queries.PaymentIntentView{}, errs.Recode(err, errs.CodeProviderFailed, "payment provider failed")
		}

		updated, err := h.intents.MarkCanceled(ctx, intent.ID, now)
		if err != nil {
			return queries.PaymentIntentView{}, errs.Recode(err, errs.CodePersistenceFailed, "failed to cancel payment intent")
		}
		if !updated {
			return queries.PaymentIntentView{}, errs.E(errs.CodeValidationFailed, "payment intent already canceled")
		}

		if err := h.inventory.Release(ctx, intent.ReservationID); err != nil {
			h.logger.ErrorContext(ctx, "Failed to release inventory reservation",
				slog.String("intent_id", intent.ID.String()),
				slog.String("reservation_id", intent.ReservationID.String()),
				slog.Any("error", err))
		}

		event := payment.NewIntentCanceled(canceled, now)
		if err := h.events.Publish(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "Failed to publish payment intent event",
				slog.String("intent_id", intent.ID.String()),
				slog.String("event_type", event.Type),
				slog.Any("error", err))
		}

		return queries.NewPaymentIntentView(canceled), nil
	}
}
