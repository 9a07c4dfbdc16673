package request

import (
	"strings"

	"checkout-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreatePaymentIntentRequest struct {
	CartID uuid.UUID `json:"cart_id" binding:"required"`
	Method string    `json:"method" binding:"required"`
}

func (r CreatePaymentIntentRequest) ToCommand(idempotencyKey string) commands.CreatePaymentIntent {
	return commands.CreatePaymentIntent{
		CartID:         r.CartID,
		Method:         strings.TrimSpace(r.Method),
		IdempotencyKey: idempotencyKey,
	}
}
