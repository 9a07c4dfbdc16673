package commands

import (
	"context"
	"time"

	"checkout-core/internal/domain/cart"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/usecase/stock"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports.go -package=commandsmock

type CartReader interface {
	LoadSnapshot(ctx context.Context, cartID uuid.UUID) (cart.Snapshot, error)
}

type Inventory interface {
	CheckAvailability(ctx context.Context, lines []cart.Line) error
	Reserve(ctx context.Context, cartID uuid.UUID, lines []cart.Line) (stock.Reservation, error)
	Release(ctx context.Context, reservationID uuid.UUID) error
}

type IntentRepository interface {
	Save(ctx context.Context, intent payment.Intent) error
	FindByID(ctx context.Context, id uuid.UUID) (payment.Intent, error)
	MarkCanceled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type PaymentProvider interface {
	Name() string
	CreateIntent(ctx context.Context, req payment.ProviderRequest) (payment.ProviderIntent, error)
	CancelIntent(ctx context.Context, ref string) error
}

type ProviderResolver interface {
	Resolve(method payment.Method) (PaymentProvider, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event payment.Event) error
}
