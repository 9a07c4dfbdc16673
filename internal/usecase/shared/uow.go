package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for consistent multi-table reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx hands out repositories bound to the running transaction.
type Tx interface {
	Idempotency() IdempotencyRepository
	Inventory() InventoryRepository
}

type IdempotencyStatus int16

const (
	IdempotencyProcessing IdempotencyStatus = 0
	IdempotencyCompleted  IdempotencyStatus = 1
)

func (s IdempotencyStatus) String() string {
	switch s {
	case IdempotencyProcessing:
		return "processing"
	case IdempotencyCompleted:
		return "completed"
	}
	return "unknown"
}

type IdempotencyRecord struct {
	Scope       string
	Key         string
	Fingerprint string
	LeaseID     uuid.UUID
	Status      IdempotencyStatus
	Response    []byte
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type IdempotencyRepository interface {
	// TryInsert reports false when a row for (scope, key) already exists.
	TryInsert(ctx context.Context, scope, key, fingerprint string, lease uuid.UUID, expiresAt, now time.Time) (bool, error)
	// GetForUpdate locks the row until the transaction ends.
	GetForUpdate(ctx context.Context, scope, key string) (*IdempotencyRecord, error)
	Takeover(ctx context.Context, scope, key, fingerprint string, lease uuid.UUID, expiresAt, now time.Time) error
	// Complete and Delete only match the row while it is still held under lease.
	Complete(ctx context.Context, scope, key string, lease uuid.UUID, response []byte, now time.Time) error
	Delete(ctx context.Context, scope, key string, lease uuid.UUID) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type ReservationLine struct {
	SKU      string
	Quantity int32
}

type InventoryRepository interface {
	Availability(ctx context.Context, skus []string) (map[string]int32, error)
	// Decrement reports false when the SKU does not have qty units available.
	Decrement(ctx context.Context, sku string, qty int32, now time.Time) (bool, error)
	Increment(ctx context.Context, sku string, qty int32, now time.Time) error
	CreateReservation(ctx context.Context, id, cartID uuid.UUID, lines []ReservationLine, expiresAt, now time.Time) error
	// ReleaseReservation returns the reserved lines, or nil when already released.
	ReleaseReservation(ctx context.Context, id uuid.UUID, now time.Time) ([]ReservationLine, error)
}
