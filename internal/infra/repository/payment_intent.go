package repository

import (
	"context"
	"time"

	"checkout-core/internal/domain/payment"
	"checkout-core/internal/infra"
	"checkout-core/internal/infra/repository/converter"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type PaymentIntentWriteQueries interface {
	InsertPaymentIntent(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertPaymentIntentParams) error
	GetPaymentIntent(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.PaymentIntents, error)
	CancelPaymentIntent(ctx context.Context, db sqlc.DBTX, arg sqlc.CancelPaymentIntentParams) (int64, error)
}

type PaymentIntentRepository struct {
	queries PaymentIntentWriteQueries
	db      sqlc.DBTX
}

func NewPaymentIntentRepository(queries PaymentIntentWriteQueries, db sqlc.DBTX) *PaymentIntentRepository {
	return &PaymentIntentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentIntentRepository) Save(ctx context.Context, intent payment.Intent) error {
	err := r.queries.InsertPaymentIntent(ctx, r.db, converter.PaymentIntentToInsertParams(intent))
	if err != nil {
		return infra.WrapRepoErr("failed to insert payment intent", err)
	}
	return nil
}

func (r *PaymentIntentRepository) FindByID(ctx context.Context, id uuid.UUID) (payment.Intent, error) {
	row, err := r.queries.GetPaymentIntent(ctx, r.db, id)
	if err != nil {
		return payment.Intent{}, infra.WrapRepoErr("failed to get payment intent", err)
	}
	return converter.PaymentIntentFromRow(row), nil
}

// MarkCanceled reports false when the intent was already canceled.
func (r *PaymentIntentRepository) MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	affected, err := r.queries.CancelPaymentIntent(ctx, r.db, sqlc.CancelPaymentIntentParams{
		ID:         id,
		CanceledAt: pgconv.TimeToPgtype(at),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel payment intent", err)
	}
	return affected == 1, nil
}
