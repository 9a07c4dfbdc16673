package readstore

import (
	"context"

	"checkout-core/internal/domain/cart"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/infra"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CartReadQueries interface {
	GetCart(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Carts, error)
	ListCartLines(ctx context.Context, db sqlc.DBTX, cartID uuid.UUID) ([]sqlc.CartLines, error)
}

type CartReadStore struct {
	queries CartReadQueries
	db      sqlc.DBTX
}

func NewCartReadStore(queries CartReadQueries, db sqlc.DBTX) *CartReadStore {
	return &CartReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *CartReadStore) LoadSnapshot(ctx context.Context, cartID uuid.UUID) (cart.Snapshot, error) {
	row, err := r.queries.GetCart(ctx, r.db, cartID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return cart.Snapshot{}, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return cart.Snapshot{}, infra.WrapRepoErr("failed to get cart", err)
	}

	lines, err := r.queries.ListCartLines(ctx, r.db, cartID)
	if err != nil {
		return cart.Snapshot{}, infra.WrapRepoErr("failed to list cart lines", err)
	}

	snap := cart.Snapshot{
		ID:       row.ID,
		UserID:   row.UserID,
		Currency: row.Currency,
		Lines:    make([]cart.Line, len(lines)),
	}
	for i, l := range lines {
		snap.Lines[i] = cart.Line{
			SKU:       l.Sku,
			Quantity:  l.Quantity,
			UnitPrice: payment.NewMoney(l.UnitPrice, row.Currency),
		}
	}
	return snap, nil
}
