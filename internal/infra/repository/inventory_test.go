//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"checkout-core/internal/infra"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInventoryWriteQueries struct {
	mock.Mock
}

func (m *MockInventoryWriteQueries) ListInventoryAvailability(ctx context.Context, db sqlc.DBTX, skus []string) ([]sqlc.ListInventoryAvailabilityRow, error) {
	args := m.Called(ctx, db, skus)
	return args.Get(0).([]sqlc.ListInventoryAvailabilityRow), args.Error(1)
}

func (m *MockInventoryWriteQueries) DecrementInventory(ctx context.Context, db sqlc.DBTX, arg sqlc.DecrementInventoryParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryWriteQueries) IncrementInventory(ctx context.Context, db sqlc.DBTX, arg sqlc.IncrementInventoryParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryWriteQueries) InsertInventoryReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertInventoryReservationParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockInventoryWriteQueries) InsertInventoryReservationLine(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertInventoryReservationLineParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockInventoryWriteQueries) ReleaseInventoryReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleaseInventoryReservationParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryWriteQueries) ListInventoryReservationLines(ctx context.Context, db sqlc.DBTX, reservationID uuid.UUID) ([]sqlc.InventoryReservationLines, error) {
	args := m.Called(ctx, db, reservationID)
	return args.Get(0).([]sqlc.InventoryReservationLines), args.Error(1)
}

func TestInventoryRepository_Availability(t *testing.T) {
	q := new(MockInventoryWriteQueries)
	q.On("ListInventoryAvailability", mock.Anything, mock.Anything, []string{"a", "b"}).
		Return([]sqlc.ListInventoryAvailabilityRow{{Sku: "a", Available: 3}}, nil)

	got, err := NewInventoryRepository(q, nil).Availability(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, map[string]int32{"a": 3}, got)
}

func TestInventoryRepository_Decrement(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name      string
		affected  int64
		mockError error
		want      bool
		wantErr   bool
	}{
		{name: "enough stock", affected: 1, want: true},
		{name: "not enough stock", affected: 0, want: false},
		{name: "database error", mockError: assert.AnError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockInventoryWriteQueries)
			q.On("DecrementInventory", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.DecrementInventoryParams) bool {
				return p.Sku == "a" && p.Available == 2
			})).Return(tt.affected, tt.mockError)

			got, err := NewInventoryRepository(q, nil).Decrement(context.Background(), "a", 2, now)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInventoryRepository_CreateReservation(t *testing.T) {
	id, cartID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	q := new(MockInventoryWriteQueries)
	q.On("InsertInventoryReservation", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.InsertInventoryReservationParams) bool {
		return p.ID == id && p.CartID == cartID
	})).Return(nil)
	q.On("InsertInventoryReservationLine", mock.Anything, mock.Anything, sqlc.InsertInventoryReservationLineParams{ReservationID: id, Sku: "a", Quantity: 1}).Return(nil)
	q.On("InsertInventoryReservationLine", mock.Anything, mock.Anything, sqlc.InsertInventoryReservationLineParams{ReservationID: id, Sku: "b", Quantity: 2}).Return(assert.AnError)

	err := NewInventoryRepository(q, nil).CreateReservation(context.Background(), id, cartID,
		[]shared.ReservationLine{{SKU: "a", Quantity: 1}, {SKU: "b", Quantity: 2}}, now.Add(time.Minute), now)

	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	q.AssertExpectations(t)
}

func TestInventoryRepository_ReleaseReservation(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("returns released lines", func(t *testing.T) {
		q := new(MockInventoryWriteQueries)
		q.On("ReleaseInventoryReservation", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
		q.On("ListInventoryReservationLines", mock.Anything, mock.Anything, id).
			Return([]sqlc.InventoryReservationLines{{ReservationID: id, Sku: "a", Quantity: 2}}, nil)

		lines, err := NewInventoryRepository(q, nil).ReleaseReservation(context.Background(), id, now)

		require.NoError(t, err)
		assert.Equal(t, []shared.ReservationLine{{SKU: "a", Quantity: 2}}, lines)
	})

	t.Run("already released", func(t *testing.T) {
		q := new(MockInventoryWriteQueries)
		q.On("ReleaseInventoryReservation", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

		lines, err := NewInventoryRepository(q, nil).ReleaseReservation(context.Background(), id, now)

		require.NoError(t, err)
		assert.Nil(t, lines)
		q.AssertNotCalled(t, "ListInventoryReservationLines", mock.Anything, mock.Anything, mock.Anything)
	})
}
