package cart

import (
	"checkout-core/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Line struct {
	SKU       string
	Quantity  int32
	UnitPrice payment.Money
}

func (l Line) Total() payment.Money {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Snapshot is a read-only copy of a cart taken at the start of checkout.
type Snapshot struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Currency string
	Lines    []Line
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

func (s Snapshot) Subtotal() payment.Money {
	total := payment.Zero(s.Currency)
	for _, l := range s.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (s Snapshot) ItemCount() int32 {
	var n int32
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}
