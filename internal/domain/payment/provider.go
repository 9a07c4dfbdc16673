package payment

import "github.com/google/uuid"

// ProviderRequest asks a payment provider to open an intent for Amount. IntentID is
// minted per attempt; providers that deduplicate requests key on it.
type ProviderRequest struct {
	IntentID uuid.UUID
	UserID   uuid.UUID
	CartID   uuid.UUID
	Amount   Money
}

type ProviderIntent struct {
	Ref          string
	ClientSecret string
	Status       Status
}
