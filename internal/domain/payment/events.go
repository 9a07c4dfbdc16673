package payment

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventIntentCreated  = "payment_intent.created"
	EventIntentCanceled = "payment_intent.canceled"
)

type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type IntentCreatedPayload struct {
	IntentID    uuid.UUID `json:"intent_id"`
	UserID      uuid.UUID `json:"user_id"`
	CartID      uuid.UUID `json:"cart_id"`
	Method      Method    `json:"method"`
	Provider    string    `json:"provider"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Reservation uuid.UUID `json:"reservation_id"`
}

type IntentCanceledPayload struct {
	IntentID uuid.UUID `json:"intent_id"`
	UserID   uuid.UUID `json:"user_id"`
}

func NewIntentCreated(i Intent, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       EventIntentCreated,
		OccurredAt: at,
		Payload: IntentCreatedPayload{
			IntentID:    i.ID,
			UserID:      i.UserID,
			CartID:      i.CartID,
			Method:      i.Method,
			Provider:    i.Provider,
			Amount:      i.Total.StringFixed(),
			Currency:    i.Total.Currency,
			Reservation: i.ReservationID,
		},
	}
}

func NewIntentCanceled(i Intent, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       EventIntentCanceled,
		OccurredAt: at,
		Payload: IntentCanceledPayload{
			IntentID: i.ID,
			UserID:   i.UserID,
		},
	}
}
