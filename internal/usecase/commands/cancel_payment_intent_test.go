//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/infra"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/commands"
	"checkout-core/internal/usecase/idempotency"
	"checkout-core/internal/usecase/mediator"
	"checkout-core/internal/usecase/queries"
	"checkout-core/tests/common/uowtest"
	commandsmock "checkout-core/tests/mock/commands"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type cancelFixture struct {
	intents   *commandsmock.MockIntentRepository
	providers *commandsmock.MockProviderResolver
	provider  *commandsmock.MockPaymentProvider
	inventory *commandsmock.MockInventory
	events    *commandsmock.MockEventPublisher
	clock     *clock.MockClock
	intent    payment.Intent
}

func newCancelFixture(t *testing.T) (*cancelFixture, commands.CancelPaymentIntent, func(auth.TrustedContext) error) {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &cancelFixture{
		intents:   commandsmock.NewMockIntentRepository(ctrl),
		providers: commandsmock.NewMockProviderResolver(ctrl),
		provider:  commandsmock.NewMockPaymentProvider(ctrl),
		inventory: commandsmock.NewMockInventory(ctrl),
		events:    commandsmock.NewMockEventPublisher(ctrl),
		clock:     clock.NewMockClock(time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)),
		intent: payment.Intent{
			ID:            uuid.New(),
			UserID:        ownerID,
			CartID:        cartID,
			Method:        payment.MethodCard,
			Provider:      "stripe",
			ProviderRef:   "pi_123",
			ReservationID: uuid.New(),
			Subtotal:      payment.MustParseMoney("200.00", "SEK"),
			Shipping:      payment.MustParseMoney("49.00", "SEK"),
			Discounts:     payment.Zero("SEK"),
			Tax:           payment.MustParseMoney("62.25", "SEK"),
			Total:         payment.MustParseMoney("311.25", "SEK"),
			Status:        payment.StatusRequiresAction,
			CreatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	f.provider.EXPECT().Name().Return("stripe").AnyTimes()

	handler := commands.NewCancelPaymentIntentHandler(
		f.intents, f.providers, f.inventory, f.events, f.clock,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	req := commands.CancelPaymentIntent{IntentID: f.intent.ID, Key: "cancel-1"}
	run := func(tc auth.TrustedContext) error {
		_, err := handler.Handle(req, tc).Run(context.Background())
		return err
	}
	return f, req, run
}

func TestCancelPaymentIntent_Success(t *testing.T) {
	f, req, _ := newCancelFixture(t)
	f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).Return(f.intent, nil)
	f.providers.EXPECT().Resolve(payment.MethodCard).Return(f.provider, nil)
	f.provider.EXPECT().CancelIntent(gomock.Any(), "pi_123").Return(nil)
	f.intents.EXPECT().MarkCanceled(gomock.Any(), f.intent.ID, f.clock.Now()).Return(true, nil)
	f.inventory.EXPECT().Release(gomock.Any(), f.intent.ReservationID).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e payment.Event) error {
			assert.Equal(t, payment.EventIntentCanceled, e.Type)
			return nil
		})

	handler := commands.NewCancelPaymentIntentHandler(f.intents, f.providers, f.inventory, f.events, f.clock,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	view, err := handler.Handle(req, owner).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, payment.StatusCanceled, view.Status)
	require.NotNil(t, view.CanceledAt)
	assert.Equal(t, f.clock.Now(), *view.CanceledAt)
	assert.Equal(t, "311.25", view.Total.Amount)
}

func TestCancelPaymentIntent_Keyed(t *testing.T) {
	req := commands.CancelPaymentIntent{IntentID: uuid.MustParse("7a1d0c9e-1111-4a2b-9c3d-4e5f6a7b8c9d"), Key: "k"}
	assert.Equal(t, "k", req.IdempotencyKey())
	assert.Equal(t, commands.ScopePaymentIntentCancel, req.IdempotencyScope())
	assert.Equal(t, "7a1d0c9e-1111-4a2b-9c3d-4e5f6a7b8c9d", req.Fingerprint())
}

func TestCancelPaymentIntent_Failures(t *testing.T) {
	tests := []struct {
		name     string
		caller   auth.TrustedContext
		setup    func(f *cancelFixture)
		wantCode errs.Code
	}{
		{
			name:   "unknown intent",
			caller: owner,
			setup: func(f *cancelFixture) {
				f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).
					Return(payment.Intent{}, infra.WrapRepoErr("payment intent not found", nil, infra.KindNotFound))
			},
			wantCode: errs.CodeNotFound,
		},
		{
			name:   "not the owner",
			caller: auth.NewAuthenticated(uuid.New(), auth.RoleCustomer, nil),
			setup: func(f *cancelFixture) {
				f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).Return(f.intent, nil)
			},
			wantCode: errs.CodeForbidden,
		},
		{
			name:   "already canceled",
			caller: owner,
			setup: func(f *cancelFixture) {
				canceled, err := f.intent.Cancel(f.clock.Now())
				require.NoError(t, err)
				f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).Return(canceled, nil)
			},
			wantCode: errs.CodeValidationFailed,
		},
		{
			name:   "provider refuses",
			caller: owner,
			setup: func(f *cancelFixture) {
				f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).Return(f.intent, nil)
				f.providers.EXPECT().Resolve(payment.MethodCard).Return(f.provider, nil)
				f.provider.EXPECT().CancelIntent(gomock.Any(), "pi_123").Return(errors.New("intent already captured"))
			},
			wantCode: errs.CodeProviderFailed,
		},
		{
			name:   "lost race with another cancel",
			caller: owner,
			setup: func(f *cancelFixture) {
				f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).Return(f.intent, nil)
				f.providers.EXPECT().Resolve(payment.MethodCard).Return(f.provider, nil)
				f.provider.EXPECT().CancelIntent(gomock.Any(), "pi_123").Return(nil)
				f.intents.EXPECT().MarkCanceled(gomock.Any(), f.intent.ID, gomock.Any()).Return(false, nil)
			},
			wantCode: errs.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _, run := newCancelFixture(t)
			tt.setup(f)

			err := run(tt.caller)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errs.CodeOf(err))
		})
	}
}

func TestCancelPaymentIntent_KeyIsScopedToCaller(t *testing.T) {
	f, req, _ := newCancelFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := idempotency.NewGuard(idempotency.NewTxStore(uowtest.NewMemoryUoW(), f.clock), logger, config.NewTestConfig())

	dispatcher := mediator.NewDispatcher(
		mediator.NewAuthorizationBehavior(),
		mediator.NewIdempotencyBehavior(guard),
	)
	handler := commands.NewCancelPaymentIntentHandler(f.intents, f.providers, f.inventory, f.events, f.clock, logger)
	require.NoError(t, mediator.Register(dispatcher, handler))

	f.intents.EXPECT().FindByID(gomock.Any(), f.intent.ID).Return(f.intent, nil).Times(2)
	f.providers.EXPECT().Resolve(payment.MethodCard).Return(f.provider, nil)
	f.provider.EXPECT().CancelIntent(gomock.Any(), "pi_123").Return(nil)
	f.intents.EXPECT().MarkCanceled(gomock.Any(), f.intent.ID, gomock.Any()).Return(true, nil)
	f.inventory.EXPECT().Release(gomock.Any(), f.intent.ReservationID).Return(nil)
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	view, err := mediator.Dispatch[commands.CancelPaymentIntent, queries.PaymentIntentView](dispatcher, req, owner).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCanceled, view.Status)

	stranger := auth.NewAuthenticated(uuid.New(), auth.RoleCustomer, nil)
	ctx, tracker := idempotency.WithReplayTracker(context.Background())
	view, err = mediator.Dispatch[commands.CancelPaymentIntent, queries.PaymentIntentView](dispatcher, req, stranger).Run(ctx)

	require.Error(t, err)
	assert.Equal(t, errs.CodeForbidden, errs.CodeOf(err))
	assert.Equal(t, queries.PaymentIntentView{}, view)
	assert.False(t, tracker.Replayed())
}
