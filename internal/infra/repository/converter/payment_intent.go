package converter

import (
	"checkout-core/internal/domain/payment"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/pkg/pgconv"
)

func PaymentIntentToInsertParams(i payment.Intent) sqlc.InsertPaymentIntentParams {
	return sqlc.InsertPaymentIntentParams{
		ID:            i.ID,
		UserID:        i.UserID,
		CartID:        i.CartID,
		Method:        string(i.Method),
		Provider:      i.Provider,
		ProviderRef:   i.ProviderRef,
		ClientSecret:  i.ClientSecret,
		ReservationID: i.ReservationID,
		Currency:      i.Total.Currency,
		Subtotal:      i.Subtotal.Amount,
		Shipping:      i.Shipping.Amount,
		Discounts:     i.Discounts.Amount,
		Tax:           i.Tax.Amount,
		Total:         i.Total.Amount,
		Status:        string(i.Status),
		CreatedAt:     pgconv.TimeToPgtype(i.CreatedAt),
	}
}

func PaymentIntentFromRow(row sqlc.PaymentIntents) payment.Intent {
	currency := row.Currency
	return payment.Intent{
		ID:            row.ID,
		UserID:        row.UserID,
		CartID:        row.CartID,
		Method:        payment.Method(row.Method),
		Provider:      row.Provider,
		ProviderRef:   row.ProviderRef,
		ClientSecret:  row.ClientSecret,
		ReservationID: row.ReservationID,
		Subtotal:      payment.NewMoney(row.Subtotal, currency),
		Shipping:      payment.NewMoney(row.Shipping, currency),
		Discounts:     payment.NewMoney(row.Discounts, currency),
		Tax:           payment.NewMoney(row.Tax, currency),
		Total:         payment.NewMoney(row.Total, currency),
		Status:        payment.Status(row.Status),
		CreatedAt:     pgconv.TimeFromPgtype(row.CreatedAt),
		CanceledAt:    pgconv.TimePtrFromPgtype(row.CanceledAt),
	}
}
