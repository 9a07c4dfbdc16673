package components

import (
	"context"
	"log/slog"

	"checkout-core/internal/infra/eventbus"
	"checkout-core/internal/infra/provider"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// IntegrationModule wires the outbound adapters: payment providers and the event stream.
var IntegrationModule = fx.Module("integration",
	fx.Provide(
		NewRedisClient,
		fx.Annotate(
			NewEventPublisher,
			fx.As(new(commands.EventPublisher)),
		),
		NewStripeAPI,
		provider.NewStripeProvider,
		provider.NewInvoiceProvider,
		fx.Annotate(
			provider.NewRegistry,
			fx.As(new(commands.ProviderResolver)),
		),
	),
)

func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) *redis.Client {
	client := eventbus.NewRedisClient(cfg.Redis)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// events are best-effort; checkout keeps working without the stream
				logger.Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client
}

func NewEventPublisher(client *redis.Client, cfg config.Config) *eventbus.RedisPublisher {
	return eventbus.NewRedisPublisher(client, cfg.Redis)
}

func NewStripeAPI(cfg config.Config) provider.PaymentIntentAPI {
	return provider.NewStripeClient(cfg.Stripe.SecretKey)
}
