package payment

import (
	"strings"
	"time"

	"checkout-core/internal/pkg/errs"

	"github.com/google/uuid"
)

type Method string

const (
	MethodCard    Method = "Card"
	MethodInvoice Method = "Invoice"
)

// ParseMethod accepts any casing of a known method name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card":
		return MethodCard, nil
	case "invoice":
		return MethodInvoice, nil
	}
	return "", errs.Ef(errs.CodeMethodNotSupported, "payment method %q is not supported", s)
}

type Status string

const (
	StatusRequiresAction Status = "requires_action"
	StatusPending        Status = "pending"
	StatusCanceled       Status = "canceled"
)

// Intent is the persisted payment intent.
type Intent struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CartID        uuid.UUID
	Method        Method
	Provider      string
	ProviderRef   string
	ClientSecret  string
	ReservationID uuid.UUID
	Subtotal      Money
	Shipping      Money
	Discounts     Money
	Tax           Money
	Total         Money
	Status        Status
	CreatedAt     time.Time
	CanceledAt    *time.Time
}

func (i Intent) IsCanceled() bool {
	return i.Status == StatusCanceled
}

// Cancel returns a canceled copy of the intent.
func (i Intent) Cancel(at time.Time) (Intent, error) {
	if i.IsCanceled() {
		return i, errs.E(errs.CodeValidationFailed, "payment intent already canceled")
	}
	i.Status = StatusCanceled
	i.CanceledAt = &at
	return i, nil
}
