//go:build unit

package readstore

import (
	"context"
	"testing"

	"checkout-core/internal/infra"
	sqlc "checkout-core/internal/infra/sqlc/generated"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartReadQueries struct {
	mock.Mock
}

func (m *MockCartReadQueries) GetCart(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Carts, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(sqlc.Carts), args.Error(1)
}

func (m *MockCartReadQueries) ListCartLines(ctx context.Context, db sqlc.DBTX, cartID uuid.UUID) ([]sqlc.CartLines, error) {
	args := m.Called(ctx, db, cartID)
	return args.Get(0).([]sqlc.CartLines), args.Error(1)
}

func TestCartReadStore_LoadSnapshot(t *testing.T) {
	cartID, userID := uuid.New(), uuid.New()

	t.Run("builds the snapshot", func(t *testing.T) {
		q := new(MockCartReadQueries)
		q.On("GetCart", mock.Anything, mock.Anything, cartID).Return(sqlc.Carts{ID: cartID, UserID: userID, Currency: "SEK"}, nil)
		q.On("ListCartLines", mock.Anything, mock.Anything, cartID).Return([]sqlc.CartLines{
			{CartID: cartID, Sku: "SKU-TEE", Quantity: 2, UnitPrice: decimal.RequireFromString("100.00")},
			{CartID: cartID, Sku: "SKU-MUG", Quantity: 1, UnitPrice: decimal.RequireFromString("49.50")},
		}, nil)

		snap, err := NewCartReadStore(q, nil).LoadSnapshot(context.Background(), cartID)

		require.NoError(t, err)
		assert.Equal(t, userID, snap.UserID)
		assert.Equal(t, "SEK", snap.Currency)
		require.Len(t, snap.Lines, 2)
		assert.Equal(t, "SKU-MUG", snap.Lines[1].SKU)
		assert.Equal(t, "49.50", snap.Lines[1].UnitPrice.StringFixed())
		assert.Equal(t, "SEK", snap.Lines[1].UnitPrice.Currency)
	})

	t.Run("unknown cart", func(t *testing.T) {
		q := new(MockCartReadQueries)
		q.On("GetCart", mock.Anything, mock.Anything, cartID).Return(sqlc.Carts{}, pgx.ErrNoRows)

		_, err := NewCartReadStore(q, nil).LoadSnapshot(context.Background(), cartID)

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		q.AssertNotCalled(t, "ListCartLines", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database failure", func(t *testing.T) {
		q := new(MockCartReadQueries)
		q.On("GetCart", mock.Anything, mock.Anything, cartID).Return(sqlc.Carts{}, assert.AnError)

		_, err := NewCartReadStore(q, nil).LoadSnapshot(context.Background(), cartID)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
