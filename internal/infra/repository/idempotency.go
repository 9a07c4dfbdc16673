package repository

import (
	"context"
	"time"

	"checkout-core/internal/infra"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/pkg/pgconv"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var errLockNotProcessing = errs.New("idempotency lock is missing, completed or held under another lease")

type IdempotencyWriteQueries interface {
	TryInsertIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.TryInsertIdempotencyLockParams) (int64, error)
	GetIdempotencyLockForUpdate(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyLockForUpdateParams) (sqlc.IdempotencyLocks, error)
	TakeoverIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.TakeoverIdempotencyLockParams) (int64, error)
	CompleteIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyLockParams) (int64, error)
	DeleteIdempotencyLock(ctx context.Context, db sqlc.DBTX, arg sqlc.DeleteIdempotencyLockParams) (int64, error)
	DeleteExpiredIdempotencyLocks(ctx context.Context, db sqlc.DBTX, expiresAt pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      sqlc.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db sqlc.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

var _ shared.IdempotencyRepository = (*IdempotencyRepository)(nil)

func (r *IdempotencyRepository) TryInsert(ctx context.Context, scope, key, fingerprint string, lease uuid.UUID, expiresAt, now time.Time) (bool, error) {
	params := sqlc.TryInsertIdempotencyLockParams{
		Scope:       scope,
		Key:         key,
		Fingerprint: fingerprint,
		LeaseID:     lease,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		CreatedAt:   pgconv.TimeToPgtype(now),
	}

	inserted, err := r.queries.TryInsertIdempotencyLock(ctx, r.db, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency lock", err)
	}

	return inserted == 1, nil
}

func (r *IdempotencyRepository) GetForUpdate(ctx context.Context, scope, key string) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyLockForUpdate(ctx, r.db, sqlc.GetIdempotencyLockForUpdateParams{
		Scope: scope,
		Key:   key,
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency lock not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock idempotency row", err)
	}

	return &shared.IdempotencyRecord{
		Scope:       row.Scope,
		Key:         row.Key,
		Fingerprint: row.Fingerprint,
		LeaseID:     row.LeaseID,
		Status:      shared.IdempotencyStatus(row.Status),
		Response:    row.Response,
		ExpiresAt:   pgconv.TimeFromPgtype(row.ExpiresAt),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func (r *IdempotencyRepository) Takeover(ctx context.Context, scope, key, fingerprint string, lease uuid.UUID, expiresAt, now time.Time) error {
	affected, err := r.queries.TakeoverIdempotencyLock(ctx, r.db, sqlc.TakeoverIdempotencyLockParams{
		Scope:       scope,
		Key:         key,
		Fingerprint: fingerprint,
		LeaseID:     lease,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		UpdatedAt:   pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to take over idempotency lock", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("idempotency lock vanished during takeover", nil, infra.KindNotFound)
	}

	return nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, scope, key string, lease uuid.UUID, response []byte, now time.Time) error {
	affected, err := r.queries.CompleteIdempotencyLock(ctx, r.db, sqlc.CompleteIdempotencyLockParams{
		Scope:     scope,
		Key:       key,
		LeaseID:   lease,
		Response:  response,
		UpdatedAt: pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency lock", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("failed to complete idempotency lock", errLockNotProcessing, infra.KindNotFound)
	}

	return nil
}

func (r *IdempotencyRepository) Delete(ctx context.Context, scope, key string, lease uuid.UUID) (bool, error) {
	affected, err := r.queries.DeleteIdempotencyLock(ctx, r.db, sqlc.DeleteIdempotencyLockParams{
		Scope:   scope,
		Key:     key,
		LeaseID: lease,
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete idempotency lock", err)
	}

	return affected > 0, nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyLocks(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency locks", err)
	}

	return count, nil
}
