//go:build unit

package stock_test

import (
	"context"
	"testing"
	"time"

	"checkout-core/internal/domain/cart"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/stock"
	"checkout-core/tests/common/uowtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(sku string, qty int32) cart.Line {
	return cart.Line{SKU: sku, Quantity: qty, UnitPrice: payment.MustParseMoney("10.00", "SEK")}
}

func setup(t *testing.T) (*stock.Service, *uowtest.MemoryUoW, *clock.MockClock) {
	t.Helper()
	uow := uowtest.NewMemoryUoW()
	uow.SetStock("sku-a", 5)
	uow.SetStock("sku-b", 1)
	clk := clock.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return stock.NewService(uow, clk, config.NewTestConfig()), uow, clk
}

func TestCheckAvailability(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	assert.NoError(t, svc.CheckAvailability(ctx, []cart.Line{line("sku-a", 3), line("sku-b", 1)}))

	err := svc.CheckAvailability(ctx, []cart.Line{line("sku-a", 3), line("sku-a", 3), line("sku-c", 1)})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInventoryUnavailable, errs.CodeOf(err))
	assert.Equal(t, "insufficient stock for sku-a, sku-c", errs.MessageOf(err))
}

func TestReserve(t *testing.T) {
	t.Run("decrements stock and records reservation", func(t *testing.T) {
		svc, uow, clk := setup(t)

		res, err := svc.Reserve(context.Background(), uuid.New(), []cart.Line{line("sku-a", 2), line("sku-b", 1)})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, res.ID)
		assert.Equal(t, clk.Now().Add(20*time.Minute), res.ExpiresAt)
		assert.Equal(t, int32(3), uow.Stock("sku-a"))
		assert.Equal(t, int32(0), uow.Stock("sku-b"))
		assert.Equal(t, 1, uow.ActiveReservations())
	})

	t.Run("shortage rolls back every line", func(t *testing.T) {
		svc, uow, _ := setup(t)

		_, err := svc.Reserve(context.Background(), uuid.New(), []cart.Line{line("sku-a", 2), line("sku-b", 2)})
		require.Error(t, err)
		assert.Equal(t, errs.CodeInventoryUnavailable, errs.CodeOf(err))
		assert.Equal(t, int32(5), uow.Stock("sku-a"))
		assert.Equal(t, int32(1), uow.Stock("sku-b"))
		assert.Equal(t, 0, uow.ActiveReservations())
	})
}

func TestRelease(t *testing.T) {
	svc, uow, _ := setup(t)
	ctx := context.Background()

	res, err := svc.Reserve(ctx, uuid.New(), []cart.Line{line("sku-a", 2)})
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, res.ID))
	assert.Equal(t, int32(5), uow.Stock("sku-a"))

	require.NoError(t, svc.Release(ctx, res.ID))
	assert.Equal(t, int32(5), uow.Stock("sku-a"))
	assert.Equal(t, 0, uow.ActiveReservations())
}
