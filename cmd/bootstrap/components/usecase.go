package components

import (
	"context"
	"log/slog"

	"checkout-core/internal/domain/pricing"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/usecase/commands"
	"checkout-core/internal/usecase/idempotency"
	"checkout-core/internal/usecase/mediator"
	"checkout-core/internal/usecase/queries"
	"checkout-core/internal/usecase/stock"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseIdempotencyModule,
	usecaseHandlersModule,
	usecaseMediatorModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		pricing.NewRuleCalculator,
		fx.As(new(pricing.Calculator)),
	),
	stock.NewService,
	func(s *stock.Service) commands.Inventory { return s },
)

var usecaseIdempotencyModule = fx.Module("usecase/idempotency",
	fx.Provide(
		idempotency.NewTxStore,
		func(s *idempotency.TxStore) idempotency.Store { return s },
		idempotency.NewGuard,
		func(lc fx.Lifecycle, s *idempotency.TxStore, logger *slog.Logger, cfg config.Config) *idempotency.Sweeper {
			sweeper := idempotency.NewSweeper(s, logger, cfg)
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					sweeper.Start()
					return nil
				},
				OnStop: func(context.Context) error {
					sweeper.Stop()
					return nil
				},
			})
			return sweeper
		},
	),
	fx.Invoke(func(*idempotency.Sweeper) {}),
)

var usecaseHandlersModule = fx.Module("usecase/handlers",
	fx.Provide(
		commands.NewCreatePaymentIntentHandler,
		commands.NewCancelPaymentIntentHandler,
		queries.NewGetPaymentIntentHandler,
	),
)

var usecaseMediatorModule = fx.Module("usecase/mediator",
	fx.Provide(NewDispatcher),
)

// NewDispatcher builds the behavior chain (tracing, logging, authorization,
// idempotency) and registers every request handler.
func NewDispatcher(
	tp trace.TracerProvider,
	logger *slog.Logger,
	guard *idempotency.Guard,
	create mediator.Handler[commands.CreatePaymentIntent, commands.PaymentIntentResponse],
	cancel mediator.Handler[commands.CancelPaymentIntent, queries.PaymentIntentView],
	get *queries.GetPaymentIntentHandler,
) (*mediator.Dispatcher, error) {
	d := mediator.NewDispatcher(
		mediator.NewTracingBehavior(tp),
		mediator.NewLoggingBehavior(logger),
		mediator.NewAuthorizationBehavior(),
		mediator.NewIdempotencyBehavior(guard),
	)

	if err := mediator.Register(d, create); err != nil {
		return nil, err
	}
	if err := mediator.Register(d, cancel); err != nil {
		return nil, err
	}
	if err := mediator.Register[queries.GetPaymentIntent, queries.PaymentIntentView](d, get); err != nil {
		return nil, err
	}
	return d, nil
}
