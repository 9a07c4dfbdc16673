package response

import (
	"time"

	"checkout-core/internal/usecase/commands"
	"checkout-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentIntentResponse struct {
	ID                   uuid.UUID  `json:"id"`
	CartID               uuid.UUID  `json:"cart_id"`
	Method               string     `json:"method"`
	Provider             string     `json:"provider"`
	ProviderRef          string     `json:"provider_ref"`
	Status               string     `json:"status"`
	ClientSecret         string     `json:"client_secret,omitempty"`
	ReservationID        uuid.UUID  `json:"reservation_id"`
	ReservationExpiresAt *time.Time `json:"reservation_expires_at,omitempty"`
	Subtotal             Money      `json:"subtotal"`
	Shipping             Money      `json:"shipping"`
	Discounts            Money      `json:"discounts"`
	Tax                  Money      `json:"tax"`
	Total                Money      `json:"total"`
	CreatedAt            time.Time  `json:"created_at"`
	CanceledAt           *time.Time `json:"canceled_at,omitempty"`
}

func FromPaymentIntentView(v queries.PaymentIntentView) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		ID:            v.ID,
		CartID:        v.CartID,
		Method:        string(v.Method),
		Provider:      v.Provider,
		ProviderRef:   v.ProviderRef,
		Status:        string(v.Status),
		ReservationID: v.ReservationID,
		Subtotal:      fromMoneyView(v.Subtotal),
		Shipping:      fromMoneyView(v.Shipping),
		Discounts:     fromMoneyView(v.Discounts),
		Tax:           fromMoneyView(v.Tax),
		Total:         fromMoneyView(v.Total),
		CreatedAt:     v.CreatedAt,
		CanceledAt:    v.CanceledAt,
	}
}

func FromCreatedPaymentIntent(r commands.PaymentIntentResponse) *PaymentIntentResponse {
	res := FromPaymentIntentView(r.PaymentIntentView)
	res.ClientSecret = r.ClientSecret
	if !r.ReservationExpiresAt.IsZero() {
		expiresAt := r.ReservationExpiresAt
		res.ReservationExpiresAt = &expiresAt
	}
	return res
}

func fromMoneyView(m queries.MoneyView) Money {
	return Money{Amount: m.Amount, Currency: m.Currency}
}
