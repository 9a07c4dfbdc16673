//go:build unit || e2e

// Package uowtest provides an in-memory shared.UnitOfWork. Transactions are
// serialized by one mutex and roll back to a snapshot on error.
package uowtest

import (
	"context"
	"sync"
	"time"

	"checkout-core/internal/infra"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type lockKey struct {
	scope string
	key   string
}

type reservation struct {
	cartID     uuid.UUID
	lines      []shared.ReservationLine
	expiresAt  time.Time
	releasedAt *time.Time
}

type state struct {
	locks        map[lockKey]shared.IdempotencyRecord
	stock        map[string]int32
	reservations map[uuid.UUID]reservation
}

func (s state) clone() state {
	c := state{
		locks:        make(map[lockKey]shared.IdempotencyRecord, len(s.locks)),
		stock:        make(map[string]int32, len(s.stock)),
		reservations: make(map[uuid.UUID]reservation, len(s.reservations)),
	}
	for k, v := range s.locks {
		v.Response = append([]byte(nil), v.Response...)
		c.locks[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.reservations {
		v.lines = append([]shared.ReservationLine(nil), v.lines...)
		c.reservations[k] = v
	}
	return c
}

type MemoryUoW struct {
	mu    sync.Mutex
	state state

	// Fail, when set, is returned by the next transaction instead of running it.
	Fail error
	txs  int
}

func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{state: state{
		locks:        map[lockKey]shared.IdempotencyRecord{},
		stock:        map[string]int32{},
		reservations: map[uuid.UUID]reservation{},
	}}
}

var _ shared.UnitOfWork = (*MemoryUoW)(nil)

func (u *MemoryUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.txs++
	if u.Fail != nil {
		err := u.Fail
		u.Fail = nil
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := u.state.clone()
	if err := fn(ctx, &memTx{st: &u.state}); err != nil {
		u.state = snapshot
		return err
	}
	return nil
}

func (u *MemoryUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.Within(ctx, fn)
}

func (u *MemoryUoW) TxCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.txs
}

func (u *MemoryUoW) SetStock(sku string, available int32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.stock[sku] = available
}

func (u *MemoryUoW) Stock(sku string) int32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.stock[sku]
}

func (u *MemoryUoW) Lock(scope, key string) (shared.IdempotencyRecord, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.state.locks[lockKey{scope, key}]
	return rec, ok
}

// PutLock stores rec as is, bypassing the repository rules.
func (u *MemoryUoW) PutLock(rec shared.IdempotencyRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.state.locks[lockKey{rec.Scope, rec.Key}] = rec
}

func (u *MemoryUoW) LockCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.state.locks)
}

func (u *MemoryUoW) ActiveReservations() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, r := range u.state.reservations {
		if r.releasedAt == nil {
			n++
		}
	}
	return n
}

type memTx struct {
	st *state
}

func (t *memTx) Idempotency() shared.IdempotencyRepository { return (*memIdempotency)(t) }
func (t *memTx) Inventory() shared.InventoryRepository     { return (*memInventory)(t) }

type memIdempotency memTx

func (r *memIdempotency) TryInsert(_ context.Context, scope, key, fingerprint string, lease uuid.UUID, expiresAt, now time.Time) (bool, error) {
	k := lockKey{scope, key}
	if _, ok := r.st.locks[k]; ok {
		return false, nil
	}
	r.st.locks[k] = shared.IdempotencyRecord{
		Scope:       scope,
		Key:         key,
		Fingerprint: fingerprint,
		LeaseID:     lease,
		Status:      shared.IdempotencyProcessing,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return true, nil
}

func (r *memIdempotency) GetForUpdate(_ context.Context, scope, key string) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.locks[lockKey{scope, key}]
	if !ok {
		return nil, infra.WrapRepoErr("idempotency lock not found", nil, infra.KindNotFound)
	}
	return &rec, nil
}

func (r *memIdempotency) Takeover(_ context.Context, scope, key, fingerprint string, lease uuid.UUID, expiresAt, now time.Time) error {
	k := lockKey{scope, key}
	rec, ok := r.st.locks[k]
	if !ok {
		return infra.WrapRepoErr("idempotency lock not found", nil, infra.KindNotFound)
	}
	rec.Fingerprint = fingerprint
	rec.LeaseID = lease
	rec.Status = shared.IdempotencyProcessing
	rec.Response = nil
	rec.ExpiresAt = expiresAt
	rec.UpdatedAt = now
	r.st.locks[k] = rec
	return nil
}

func (r *memIdempotency) Complete(_ context.Context, scope, key string, lease uuid.UUID, response []byte, now time.Time) error {
	k := lockKey{scope, key}
	rec, ok := r.st.locks[k]
	if !ok || rec.LeaseID != lease || rec.Status != shared.IdempotencyProcessing {
		return infra.WrapRepoErr("idempotency lock is not processing", nil, infra.KindNotFound)
	}
	rec.Status = shared.IdempotencyCompleted
	rec.Response = append([]byte(nil), response...)
	rec.UpdatedAt = now
	r.st.locks[k] = rec
	return nil
}

func (r *memIdempotency) Delete(_ context.Context, scope, key string, lease uuid.UUID) (bool, error) {
	k := lockKey{scope, key}
	if rec, ok := r.st.locks[k]; !ok || rec.LeaseID != lease {
		return false, nil
	}
	delete(r.st.locks, k)
	return true, nil
}

func (r *memIdempotency) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, rec := range r.st.locks {
		if !rec.ExpiresAt.After(now) {
			delete(r.st.locks, k)
			n++
		}
	}
	return n, nil
}

type memInventory memTx

func (r *memInventory) Availability(_ context.Context, skus []string) (map[string]int32, error) {
	out := make(map[string]int32, len(skus))
	for _, sku := range skus {
		if n, ok := r.st.stock[sku]; ok {
			out[sku] = n
		}
	}
	return out, nil
}

func (r *memInventory) Decrement(_ context.Context, sku string, qty int32, _ time.Time) (bool, error) {
	n, ok := r.st.stock[sku]
	if !ok || n < qty {
		return false, nil
	}
	r.st.stock[sku] = n - qty
	return true, nil
}

func (r *memInventory) Increment(_ context.Context, sku string, qty int32, _ time.Time) error {
	r.st.stock[sku] += qty
	return nil
}

func (r *memInventory) CreateReservation(_ context.Context, id, cartID uuid.UUID, lines []shared.ReservationLine, expiresAt, _ time.Time) error {
	if _, ok := r.st.reservations[id]; ok {
		return infra.WrapRepoErr("reservation already exists", nil, infra.KindDuplicateKey)
	}
	r.st.reservations[id] = reservation{
		cartID:    cartID,
		lines:     append([]shared.ReservationLine(nil), lines...),
		expiresAt: expiresAt,
	}
	return nil
}

func (r *memInventory) ReleaseReservation(_ context.Context, id uuid.UUID, now time.Time) ([]shared.ReservationLine, error) {
	res, ok := r.st.reservations[id]
	if !ok || res.releasedAt != nil {
		return nil, nil
	}
	res.releasedAt = &now
	r.st.reservations[id] = res
	return res.lines, nil
}
