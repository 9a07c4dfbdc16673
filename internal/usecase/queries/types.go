package queries

import (
	"time"

	"checkout-core/internal/domain/payment"

	"github.com/google/uuid"
)

type MoneyView struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func NewMoneyView(m payment.Money) MoneyView {
	return MoneyView{Amount: m.StringFixed(), Currency: m.Currency}
}

// PaymentIntentView is the read model of a payment intent. It is also what the
// idempotency cache stores, so it must round-trip through JSON unchanged.
type PaymentIntentView struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	CartID        uuid.UUID      `json:"cart_id"`
	Method        payment.Method `json:"method"`
	Provider      string         `json:"provider"`
	ProviderRef   string         `json:"provider_ref"`
	Status        payment.Status `json:"status"`
	ReservationID uuid.UUID      `json:"reservation_id"`
	Subtotal      MoneyView      `json:"subtotal"`
	Shipping      MoneyView      `json:"shipping"`
	Discounts     MoneyView      `json:"discounts"`
	Tax           MoneyView      `json:"tax"`
	Total         MoneyView      `json:"total"`
	CreatedAt     time.Time      `json:"created_at"`
	CanceledAt    *time.Time     `json:"canceled_at,omitempty"`
}

func NewPaymentIntentView(i payment.Intent) PaymentIntentView {
	return PaymentIntentView{
		ID:            i.ID,
		UserID:        i.UserID,
		CartID:        i.CartID,
		Method:        i.Method,
		Provider:      i.Provider,
		ProviderRef:   i.ProviderRef,
		Status:        i.Status,
		ReservationID: i.ReservationID,
		Subtotal:      NewMoneyView(i.Subtotal),
		Shipping:      NewMoneyView(i.Shipping),
		Discounts:     NewMoneyView(i.Discounts),
		Tax:           NewMoneyView(i.Tax),
		Total:         NewMoneyView(i.Total),
		CreatedAt:     i.CreatedAt,
		CanceledAt:    i.CanceledAt,
	}
}
