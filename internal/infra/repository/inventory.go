package repository

import (
	"context"
	"time"

	"checkout-core/internal/infra"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/pkg/pgconv"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type InventoryWriteQueries interface {
	ListInventoryAvailability(ctx context.Context, db sqlc.DBTX, skus []string) ([]sqlc.ListInventoryAvailabilityRow, error)
	DecrementInventory(ctx context.Context, db sqlc.DBTX, arg sqlc.DecrementInventoryParams) (int64, error)
	IncrementInventory(ctx context.Context, db sqlc.DBTX, arg sqlc.IncrementInventoryParams) (int64, error)
	InsertInventoryReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertInventoryReservationParams) error
	InsertInventoryReservationLine(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertInventoryReservationLineParams) error
	ReleaseInventoryReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleaseInventoryReservationParams) (int64, error)
	ListInventoryReservationLines(ctx context.Context, db sqlc.DBTX, reservationID uuid.UUID) ([]sqlc.InventoryReservationLines, error)
}

type InventoryRepository struct {
	queries InventoryWriteQueries
	db      sqlc.DBTX
}

func NewInventoryRepository(queries InventoryWriteQueries, db sqlc.DBTX) *InventoryRepository {
	return &InventoryRepository{
		queries: queries,
		db:      db,
	}
}

var _ shared.InventoryRepository = (*InventoryRepository)(nil)

func (r *InventoryRepository) Availability(ctx context.Context, skus []string) (map[string]int32, error) {
	rows, err := r.queries.ListInventoryAvailability(ctx, r.db, skus)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list inventory availability", err)
	}

	available := make(map[string]int32, len(rows))
	for _, row := range rows {
		available[row.Sku] = row.Available
	}
	return available, nil
}

func (r *InventoryRepository) Decrement(ctx context.Context, sku string, qty int32, now time.Time) (bool, error) {
	affected, err := r.queries.DecrementInventory(ctx, r.db, sqlc.DecrementInventoryParams{
		Sku:       sku,
		Available: qty,
		UpdatedAt: pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement inventory", err)
	}
	return affected == 1, nil
}

func (r *InventoryRepository) Increment(ctx context.Context, sku string, qty int32, now time.Time) error {
	affected, err := r.queries.IncrementInventory(ctx, r.db, sqlc.IncrementInventoryParams{
		Sku:       sku,
		Available: qty,
		UpdatedAt: pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to increment inventory", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("inventory item not found: "+sku, nil, infra.KindNotFound)
	}
	return nil
}

func (r *InventoryRepository) CreateReservation(ctx context.Context, id, cartID uuid.UUID, lines []shared.ReservationLine, expiresAt, now time.Time) error {
	err := r.queries.InsertInventoryReservation(ctx, r.db, sqlc.InsertInventoryReservationParams{
		ID:        id,
		CartID:    cartID,
		ExpiresAt: pgconv.TimeToPgtype(expiresAt),
		CreatedAt: pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to insert inventory reservation", err)
	}

	for _, l := range lines {
		err := r.queries.InsertInventoryReservationLine(ctx, r.db, sqlc.InsertInventoryReservationLineParams{
			ReservationID: id,
			Sku:           l.SKU,
			Quantity:      l.Quantity,
		})
		if err != nil {
			return infra.WrapRepoErr("failed to insert inventory reservation line", err)
		}
	}
	return nil
}

func (r *InventoryRepository) ReleaseReservation(ctx context.Context, id uuid.UUID, now time.Time) ([]shared.ReservationLine, error) {
	affected, err := r.queries.ReleaseInventoryReservation(ctx, r.db, sqlc.ReleaseInventoryReservationParams{
		ID:         id,
		ReleasedAt: pgconv.TimeToPgtype(now),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to release inventory reservation", err)
	}
	if affected == 0 {
		return nil, nil
	}

	rows, err := r.queries.ListInventoryReservationLines(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation lines", err)
	}

	lines := make([]shared.ReservationLine, len(rows))
	for i, row := range rows {
		lines[i] = shared.ReservationLine{SKU: row.Sku, Quantity: row.Quantity}
	}
	return lines, nil
}
