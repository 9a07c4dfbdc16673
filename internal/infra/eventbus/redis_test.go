//go:build unit

package eventbus_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"checkout-core/internal/domain/payment"
	"checkout-core/internal/infra/eventbus"
	"checkout-core/internal/pkg/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.NewTestConfig().Redis
	cfg.Addr = mr.Addr()

	client := eventbus.NewRedisClient(cfg)
	t.Cleanup(func() { _ = client.Close() })
	pub := eventbus.NewRedisPublisher(client, cfg)

	intent := payment.Intent{
		ID:     uuid.New(),
		UserID: uuid.New(),
		CartID: uuid.New(),
		Method: payment.MethodCard,
		Total:  payment.MustParseMoney("311.25", "SEK"),
	}
	event := payment.NewIntentCreated(intent, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, pub.Publish(context.Background(), event))

	entries, err := client.XRange(context.Background(), cfg.Stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.Equal(t, event.ID.String(), values["id"])
	assert.Equal(t, payment.EventIntentCreated, values["type"])
	assert.Equal(t, "2025-03-01T12:00:00Z", values["occurred_at"])

	var payload payment.IntentCreatedPayload
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &payload))
	assert.Equal(t, intent.ID, payload.IntentID)
	assert.Equal(t, "311.25", payload.Amount)
	assert.Equal(t, "SEK", payload.Currency)
}

func TestRedisPublisher_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.NewTestConfig().Redis
	cfg.Addr = mr.Addr()
	client := eventbus.NewRedisClient(cfg)
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := eventbus.NewRedisPublisher(client, cfg).Publish(context.Background(), payment.NewIntentCanceled(payment.Intent{}, time.Now()))

	assert.Error(t, err)
}
