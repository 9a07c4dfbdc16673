package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher appends events to a Redis stream, trimmed to roughly MaxLen entries.
type RedisPublisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func NewRedisPublisher(client redis.Cmdable, cfg config.RedisConfig) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		stream: cfg.Stream,
		maxLen: cfg.MaxLen,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event payment.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return errs.Wrap(err, "failed to encode event payload")
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"id":          event.ID.String(),
			"type":        event.Type,
			"occurred_at": event.OccurredAt.UTC().Format(time.RFC3339Nano),
			"payload":     string(payload),
		},
	}).Err()
	if err != nil {
		return errs.Wrap(err, "failed to publish event "+event.Type)
	}
	return nil
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
