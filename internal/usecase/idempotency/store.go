// Package idempotency runs a side effect at most once per (scope, key).
//
// The Store keeps one lock row per (scope, key). The first caller to acquire it runs
// the effect; concurrent callers see Busy, later callers with the same fingerprint get
// the cached response and callers with a different fingerprint get a conflict.
// Mutual exclusion comes from the backing store, not from an in-process lock, so it
// holds across processes sharing one database.
//
// Every acquisition mints a lease id. Complete and Abandon are fenced by it: once an
// expired lock has been taken over, the previous holder can no longer finish or
// delete it.
package idempotency

import (
	"context"
	"time"

	"checkout-core/internal/infra"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type Decision int

const (
	Acquired Decision = iota + 1
	DuplicateSameDone
	DuplicateSameBusy
	DuplicateDifferent
)

func (d Decision) String() string {
	switch d {
	case Acquired:
		return "acquired"
	case DuplicateSameDone:
		return "duplicate_same_done"
	case DuplicateSameBusy:
		return "duplicate_same_busy"
	case DuplicateDifferent:
		return "duplicate_different"
	}
	return "unknown"
}

// Lookup is the result of TryAcquire. Lease is only set for Acquired and Response
// only for DuplicateSameDone.
type Lookup struct {
	Decision Decision
	Lease    uuid.UUID
	Response []byte
}

//go:generate mockgen -source=store.go -destination=../../../tests/mock/idempotency/store.go -package=idempotencymock

type Store interface {
	TryAcquire(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (Lookup, error)
	Complete(ctx context.Context, scope, key string, lease uuid.UUID, response []byte) error
	Abandon(ctx context.Context, scope, key string, lease uuid.UUID) error
}

// a row deleted between our conflicting insert and the locking read is retried this many times
const maxAcquireAttempts = 3

type TxStore struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewTxStore(uow shared.UnitOfWork, clk clock.Clock) *TxStore {
	return &TxStore{uow: uow, clock: clk}
}

var _ Store = (*TxStore)(nil)

func (s *TxStore) TryAcquire(ctx context.Context, scope, key, fingerprint string, ttl time.Duration) (Lookup, error) {
	if scope == "" || key == "" {
		return Lookup{}, errs.E(errs.CodeValidationFailed, "idempotency scope and key are required")
	}
	if ttl <= 0 {
		return Lookup{}, errs.E(errs.CodeValidationFailed, "idempotency ttl must be positive")
	}

	lookup, err := shared.WithinResult(ctx, s.uow, func(ctx context.Context, tx shared.Tx) (Lookup, error) {
		return s.acquire(ctx, tx.Idempotency(), scope, key, fingerprint, ttl)
	})
	if err != nil {
		return Lookup{}, errs.WithCode(err, errs.CodePersistenceFailed, "idempotency store unavailable")
	}
	return lookup, nil
}

func (s *TxStore) acquire(ctx context.Context, repo shared.IdempotencyRepository, scope, key, fingerprint string, ttl time.Duration) (Lookup, error) {
	for attempt := 1; ; attempt++ {
		now := s.clock.Now()
		expiresAt := now.Add(ttl)
		lease := uuid.New()

		inserted, err := repo.TryInsert(ctx, scope, key, fingerprint, lease, expiresAt, now)
		if err != nil {
			return Lookup{}, err
		}
		if inserted {
			return Lookup{Decision: Acquired, Lease: lease}, nil
		}

		rec, err := repo.GetForUpdate(ctx, scope, key)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) && attempt < maxAcquireAttempts {
				continue
			}
			return Lookup{}, err
		}

		if !rec.ExpiresAt.After(now) {
			if err := repo.Takeover(ctx, scope, key, fingerprint, lease, expiresAt, now); err != nil {
				return Lookup{}, err
			}
			return Lookup{Decision: Acquired, Lease: lease}, nil
		}

		switch {
		case rec.Fingerprint != fingerprint:
			return Lookup{Decision: DuplicateDifferent}, nil
		case rec.Status == shared.IdempotencyCompleted:
			return Lookup{Decision: DuplicateSameDone, Response: rec.Response}, nil
		default:
			return Lookup{Decision: DuplicateSameBusy}, nil
		}
	}
}

// Complete fails when the lock is gone, already completed or held under another lease.
func (s *TxStore) Complete(ctx context.Context, scope, key string, lease uuid.UUID, response []byte) error {
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Complete(ctx, scope, key, lease, response, s.clock.Now())
	})
	if err != nil {
		return errs.WithCode(err, errs.CodePersistenceFailed, "failed to complete idempotency lock")
	}
	return nil
}

// Abandon deletes the lock if it is still held under lease. A lock that no longer
// exists or was taken over is left alone.
func (s *TxStore) Abandon(ctx context.Context, scope, key string, lease uuid.UUID) error {
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Idempotency().Delete(ctx, scope, key, lease)
		return err
	})
	if err != nil {
		return errs.WithCode(err, errs.CodePersistenceFailed, "failed to abandon idempotency lock")
	}
	return nil
}

// Sweep removes every lock whose lease has expired.
func (s *TxStore) Sweep(ctx context.Context) (int64, error) {
	return shared.WithinResult(ctx, s.uow, func(ctx context.Context, tx shared.Tx) (int64, error) {
		return tx.Idempotency().DeleteExpired(ctx, s.clock.Now())
	})
}
