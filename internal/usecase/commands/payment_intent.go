package commands

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/domain/cart"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/domain/pricing"
	"checkout-core/internal/infra"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/effect"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/idempotency"
	"checkout-core/internal/usecase/mediator"
	"checkout-core/internal/usecase/queries"
	"checkout-core/internal/usecase/stock"

	"github.com/google/uuid"
)

const ScopePaymentIntent = "payment_intent"

type CreatePaymentIntent struct {
	CartID           uuid.UUID
	Method           string
	IdempotencyKey   string
	IdempotencyScope string
}

func (CreatePaymentIntent) RequestName() string { return "payment_intent.create" }

func (r CreatePaymentIntent) scope() string {
	if r.IdempotencyScope == "" {
		return ScopePaymentIntent
	}
	return r.IdempotencyScope
}

type PaymentIntentResponse struct {
	queries.PaymentIntentView
	ClientSecret         string    `json:"client_secret,omitempty"`
	ReservationExpiresAt time.Time `json:"reservation_expires_at"`
}

// FlowState carries everything the workflow has learned so far. Steps never mutate
// it; each with* method returns a modified copy.
type FlowState struct {
	request  CreatePaymentIntent
	caller   auth.TrustedContext
	method   payment.Method
	provider PaymentProvider
	snapshot cart.Snapshot

	subtotal  payment.Money
	shipping  payment.Money
	discounts payment.Money
	tax       payment.Money
	total     payment.Money

	reservation    stock.Reservation
	providerIntent payment.ProviderIntent
	intent         payment.Intent
}

func newFlowState(req CreatePaymentIntent, tc auth.TrustedContext) FlowState {
	return FlowState{request: req, caller: tc}
}

func (s FlowState) withSnapshot(snap cart.Snapshot) FlowState {
	snap.Lines = slices.Clone(snap.Lines)
	s.snapshot = snap
	return s
}

func (s FlowState) withProvider(method payment.Method, p PaymentProvider) FlowState {
	s.method = method
	s.provider = p
	return s
}

func (s FlowState) withPricing(subtotal, shipping, discounts, tax payment.Money) FlowState {
	s.subtotal = subtotal
	s.shipping = shipping
	s.discounts = discounts
	s.tax = tax
	s.total = subtotal.Add(shipping).Sub(discounts).Add(tax)
	return s
}

func (s FlowState) withReservation(r stock.Reservation) FlowState {
	s.reservation = r
	return s
}

func (s FlowState) withProviderIntent(pi payment.ProviderIntent) FlowState {
	s.providerIntent = pi
	return s
}

func (s FlowState) withIntent(i payment.Intent) FlowState {
	s.intent = i
	return s
}

// Lines returns a copy of the snapshot lines.
func (s FlowState) Lines() []cart.Line {
	return slices.Clone(s.snapshot.Lines)
}

func (s FlowState) Total() payment.Money {
	return s.total
}

// fingerprint identifies the logical request: same cart, method and priced total.
func (s FlowState) fingerprint() string {
	return idempotency.Fingerprint(
		s.request.CartID.String(),
		string(s.method),
		s.total.StringFixed(),
		s.total.Currency,
	)
}

func (s FlowState) response() PaymentIntentResponse {
	return PaymentIntentResponse{
		PaymentIntentView:    queries.NewPaymentIntentView(s.intent),
		ClientSecret:         s.providerIntent.ClientSecret,
		ReservationExpiresAt: s.reservation.ExpiresAt,
	}
}

type createPaymentIntentHandler struct {
	carts     CartReader
	inventory Inventory
	pricing   pricing.Calculator
	providers ProviderResolver
	intents   IntentRepository
	events    EventPublisher
	guard     *idempotency.Guard
	clock     clock.Clock
	logger    *slog.Logger
}

func NewCreatePaymentIntentHandler(
	carts CartReader,
	inventory Inventory,
	calculator pricing.Calculator,
	providers ProviderResolver,
	intents IntentRepository,
	events EventPublisher,
	guard *idempotency.Guard,
	clock clock.Clock,
	logger *slog.Logger,
) mediator.Handler[CreatePaymentIntent, PaymentIntentResponse] {
	return &createPaymentIntentHandler{
		carts:     carts,
		inventory: inventory,
		pricing:   calculator,
		providers: providers,
		intents:   intents,
		events:    events,
		guard:     guard,
		clock:     clock,
		logger:    logger,
	}
}

// Handle authenticates, validates and prices the cart, then runs the side effects
// (reserve, provider intent, persist, publish) under the idempotency guard. The
// guard key includes the priced total, so it can only be built after pricing.
func (h *createPaymentIntentHandler) Handle(req CreatePaymentIntent, tc auth.TrustedContext) effect.Effect[PaymentIntentResponse] {
	priced := effect.Sequence(newFlowState(req, tc), h.authenticate, h.validate, h.price)

	return effect.Bind(priced, func(s FlowState) effect.Effect[PaymentIntentResponse] {
		sideEffects := effect.Map(
			effect.Sequence(s, h.reserve, h.createProviderIntent, h.persist, h.publish),
			FlowState.response,
		)
		key := idempotency.Key{
			Scope:       idempotency.CallerScope(req.scope(), tc.ID),
			Key:         req.IdempotencyKey,
			Fingerprint: s.fingerprint(),
		}
		return idempotency.WithIdempotency(h.guard, key, sideEffects)
	})
}

func (h *createPaymentIntentHandler) authenticate(s FlowState) effect.Effect[FlowState] {
	return func(context.Context) (FlowState, error) {
		if !s.caller.Authenticated {
			return FlowState{}, errs.E(errs.CodeUnauthorized, "authentication required")
		}
		return s, nil
	}
}

func (h *createPaymentIntentHandler) validate(s FlowState) effect.Effect[FlowState] {
	return func(ctx context.Context) (FlowState, error) {
		snap, err := h.carts.LoadSnapshot(ctx, s.request.CartID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return FlowState{}, errs.Recode(err, errs.CodeCartNotFound, "cart not found")
			}
			return FlowState{}, errs.WithCode(err, errs.CodePersistenceFailed, "failed to load cart")
		}
		if !s.caller.CanActFor(snap.UserID) {
			// a stranger's cart is reported as missing
			return FlowState{}, errs.E(errs.CodeCartNotFound, "cart not found")
		}
		if snap.IsEmpty() {
			return FlowState{}, errs.E(errs.CodeCartEmpty, "cart is empty")
		}

		method, err := payment.ParseMethod(s.request.Method)
		if err != nil {
			return FlowState{}, err
		}
		provider, err := h.providers.Resolve(method)
		if err != nil {
			return FlowState{}, errs.WithCode(err, errs.CodeMethodNotSupported, "payment method is not supported")
		}

		if err := h.inventory.CheckAvailability(ctx, snap.Lines); err != nil {
			return FlowState{}, errs.WithCode(err, errs.CodeInventoryUnavailable, "inventory unavailable")
		}

		return s.withSnapshot(snap).withProvider(method, provider), nil
	}
}

func (h *createPaymentIntentHandler) price(s FlowState) effect.Effect[FlowState] {
	return func(ctx context.Context) (FlowState, error) {
		subtotal := s.snapshot.Subtotal()

		shipping, err := h.pricing.Shipping(ctx, s.snapshot)
		if err != nil {
			return FlowState{}, errs.Recode(err, errs.CodePricingFailed, "failed to price shipping")
		}
		discounts, err := h.pricing.Discounts(ctx, s.snapshot, subtotal)
		if err != nil {
			return FlowState{}, errs.Recode(err, errs.CodePricingFailed, "failed to price discounts")
		}
		tax, err := h.pricing.Tax(ctx, s.snapshot, subtotal.Add(shipping).Sub(discounts))
		if err != nil {
			return FlowState{}, errs.Recode(err, errs.CodePricingFailed, "failed to price tax")
		}

		return s.withPricing(subtotal, shipping, discounts, tax), nil
	}
}

func (h *createPaymentIntentHandler) reserve(s FlowState) effect.Effect[FlowState] {
	return func(ctx context.Context) (FlowState, error) {
		res, err := h.inventory.Reserve(ctx, s.snapshot.ID, s.Lines())
		if err != nil {
			return FlowState{}, errs.WithCode(err, errs.CodeInventoryUnavailable, "failed to reserve inventory")
		}
		return s.withReservation(res), nil
	}
}

func (h *createPaymentIntentHandler) createProviderIntent(s FlowState) effect.Effect[FlowState] {
	return func(ctx context.Context) (FlowState, error) {
		intentID := uuid.New()
		pi, err := s.provider.CreateIntent(ctx, payment.ProviderRequest{
			IntentID: intentID,
			UserID:   s.snapshot.UserID,
			CartID:   s.snapshot.ID,
			Amount:   s.total,
		})
		if err != nil {
			h.releaseReservation(ctx, s)
			return FlowState{}, errs.Recode(err, errs.CodeProviderFailed, "payment provider failed")
		}

		intent := payment.Intent{
			ID:            intentID,
			UserID:        s.snapshot.UserID,
			CartID:        s.snapshot.ID,
			Method:        s.method,
			Provider:      s.provider.Name(),
			ProviderRef:   pi.Ref,
			ClientSecret:  pi.ClientSecret,
			ReservationID: s.reservation.ID,
			Subtotal:      s.subtotal,
			Shipping:      s.shipping,
			Discounts:     s.discounts,
			Tax:           s.tax,
			Total:         s.total,
			Status:        pi.Status,
			CreatedAt:     h.clock.Now(),
		}
		return s.withProviderIntent(pi).withIntent(intent), nil
	}
}

func (h *createPaymentIntentHandler) persist(s FlowState) effect.Effect[FlowState] {
	return func(ctx context.Context) (FlowState, error) {
		if err := h.intents.Save(ctx, s.intent); err != nil {
			h.cancelProviderIntent(ctx, s)
			h.releaseReservation(ctx, s)
			return FlowState{}, errs.Recode(err, errs.CodePersistenceFailed, "failed to save payment intent")
		}
		return s, nil
	}
}

// publish never fails the workflow: the intent already exists at this point.
func (h *createPaymentIntentHandler) publish(s FlowState) effect.Effect[FlowState] {
	return func(ctx context.Context) (FlowState, error) {
		event := payment.NewIntentCreated(s.intent, h.clock.Now())
		if err := h.events.Publish(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "Failed to publish payment intent event",
				slog.String("intent_id", s.intent.ID.String()),
				slog.String("event_type", event.Type),
				slog.Any("error", err))
		}
		return s, nil
	}
}

func (h *createPaymentIntentHandler) releaseReservation(ctx context.Context, s FlowState) {
	ctx = context.WithoutCancel(ctx)
	if err := h.inventory.Release(ctx, s.reservation.ID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to release inventory reservation",
			slog.String("reservation_id", s.reservation.ID.String()),
			slog.Any("error", err))
	}
}

func (h *createPaymentIntentHandler) cancelProviderIntent(ctx context.Context, s FlowState) {
	ctx = context.WithoutCancel(ctx)
	if err := s.provider.CancelIntent(ctx, s.providerIntent.Ref); err != nil {
		h.logger.ErrorContext(ctx, "Failed to cancel provider intent",
			slog.String("provider", s.provider.Name()),
			slog.String("provider_ref", s.providerIntent.Ref),
			slog.Any("error", err))
	}
}
