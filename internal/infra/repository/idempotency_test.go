//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"checkout-core/internal/infra"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/pkg/pgconv"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyWriteQueries struct {
	mock.Mock
}

func (m *MockIdempotencyWriteQueries) TryInsertIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.TryInsertIdempotencyLockParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) GetIdempotencyLockForUpdate(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyLockForUpdateParams) (sqlc.IdempotencyLocks, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(sqlc.IdempotencyLocks), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) TakeoverIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.TakeoverIdempotencyLockParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) CompleteIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyLockParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) DeleteIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.DeleteIdempotencyLockParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyWriteQueries) DeleteExpiredIdempotencyLocks(ctx context.Context, db sqlc.DBTX, expiresAt pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, db, expiresAt)
	return args.Get(0).(int64), args.Error(1)
}

var (
	lockNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lockLease = uuid.MustParse("5b7a0f3e-1c2d-4e5f-8a9b-0c1d2e3f4a5b")
)

func TestIdempotencyRepository_TryInsert(t *testing.T) {
	tests := []struct {
		name      string
		affected  int64
		mockError error
		want      bool
		wantKind  infra.RepositoryErrorKind
	}{
		{name: "inserted", affected: 1, want: true},
		{name: "already exists", affected: 0, want: false},
		{name: "database error", mockError: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockIdempotencyWriteQueries)
			q.On("TryInsertIdempotencyLock", mock.Anything, mock.Anything, sqlc.TryInsertIdempotencyLockParams{
				Scope:       "payment_intent",
				Key:         "abc",
				Fingerprint: "fp",
				LeaseID:     lockLease,
				ExpiresAt:   pgconv.TimeToPgtype(lockNow.Add(time.Minute)),
				CreatedAt:   pgconv.TimeToPgtype(lockNow),
			}).Return(tt.affected, tt.mockError)

			repo := NewIdempotencyRepository(q, nil)
			got, err := repo.TryInsert(context.Background(), "payment_intent", "abc", "fp", lockLease, lockNow.Add(time.Minute), lockNow)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			q.AssertExpectations(t)
		})
	}
}

func TestIdempotencyRepository_GetForUpdate(t *testing.T) {
	params := sqlc.GetIdempotencyLockForUpdateParams{Scope: "payment_intent", Key: "abc"}

	t.Run("maps the row", func(t *testing.T) {
		q := new(MockIdempotencyWriteQueries)
		q.On("GetIdempotencyLockForUpdate", mock.Anything, mock.Anything, params).Return(sqlc.IdempotencyLocks{
			Scope:       "payment_intent",
			Key:         "abc",
			Fingerprint: "fp",
			LeaseID:     lockLease,
			Status:      1,
			Response:    []byte(`{"id":"x"}`),
			ExpiresAt:   pgconv.TimeToPgtype(lockNow.Add(time.Minute)),
			CreatedAt:   pgconv.TimeToPgtype(lockNow),
			UpdatedAt:   pgconv.TimeToPgtype(lockNow),
		}, nil)

		rec, err := NewIdempotencyRepository(q, nil).GetForUpdate(context.Background(), "payment_intent", "abc")

		require.NoError(t, err)
		assert.Equal(t, shared.IdempotencyCompleted, rec.Status)
		assert.Equal(t, "fp", rec.Fingerprint)
		assert.Equal(t, lockLease, rec.LeaseID)
		assert.JSONEq(t, `{"id":"x"}`, string(rec.Response))
		assert.True(t, rec.ExpiresAt.Equal(lockNow.Add(time.Minute)))
	})

	t.Run("missing row is not found", func(t *testing.T) {
		q := new(MockIdempotencyWriteQueries)
		q.On("GetIdempotencyLockForUpdate", mock.Anything, mock.Anything, params).Return(sqlc.IdempotencyLocks{}, pgx.ErrNoRows)

		_, err := NewIdempotencyRepository(q, nil).GetForUpdate(context.Background(), "payment_intent", "abc")

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestIdempotencyRepository_Complete(t *testing.T) {
	tests := []struct {
		name      string
		affected  int64
		mockError error
		wantKind  infra.RepositoryErrorKind
	}{
		{name: "completed", affected: 1},
		{name: "no processing row under this lease", affected: 0, wantKind: infra.KindNotFound},
		{name: "database error", mockError: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockIdempotencyWriteQueries)
			q.On("CompleteIdempotencyLock", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.CompleteIdempotencyLockParams) bool {
				return p.Scope == "payment_intent" && p.Key == "abc" && p.LeaseID == lockLease && string(p.Response) == `{}`
			})).Return(tt.affected, tt.mockError)

			err := NewIdempotencyRepository(q, nil).Complete(context.Background(), "payment_intent", "abc", lockLease, []byte(`{}`), lockNow)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
			}
			q.AssertExpectations(t)
		})
	}
}

func TestIdempotencyRepository_TakeoverAndDelete(t *testing.T) {
	q := new(MockIdempotencyWriteQueries)
	q.On("TakeoverIdempotencyLock", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	q.On("DeleteIdempotencyLock", mock.Anything, mock.Anything, sqlc.DeleteIdempotencyLockParams{Scope: "s", Key: "k", LeaseID: lockLease}).Return(int64(1), nil).Once()
	q.On("DeleteExpiredIdempotencyLocks", mock.Anything, mock.Anything, pgconv.TimeToPgtype(lockNow)).Return(int64(3), nil).Once()
	repo := NewIdempotencyRepository(q, nil)

	err := repo.Takeover(context.Background(), "s", "k", "fp", lockLease, lockNow.Add(time.Minute), lockNow)
	assert.True(t, infra.IsKind(err, infra.KindNotFound), "a vanished row must not be treated as taken over")

	deleted, err := repo.Delete(context.Background(), "s", "k", lockLease)
	require.NoError(t, err)
	assert.True(t, deleted)

	swept, err := repo.DeleteExpired(context.Background(), lockNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), swept)

	q.AssertExpectations(t)
}
