// Package stock checks and reserves inventory for a cart.
package stock

import (
	"context"
	"sort"
	"strings"
	"time"

	"checkout-core/internal/domain/cart"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type Reservation struct {
	ID        uuid.UUID
	ExpiresAt time.Time
}

type Service struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	ttl   time.Duration
}

func NewService(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) *Service {
	return &Service{uow: uow, clock: clk, ttl: cfg.Inventory.ReservationTTL}
}

// CheckAvailability fails with InventoryUnavailable naming every short SKU.
func (s *Service) CheckAvailability(ctx context.Context, lines []cart.Line) error {
	wanted := demand(lines)
	skus := make([]string, 0, len(wanted))
	for sku := range wanted {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	available, err := shared.ReadResult(ctx, s.uow, func(ctx context.Context, tx shared.Tx) (map[string]int32, error) {
		return tx.Inventory().Availability(ctx, skus)
	})
	if err != nil {
		return errs.WithCode(err, errs.CodePersistenceFailed, "failed to check inventory")
	}

	var short []string
	for _, sku := range skus {
		if available[sku] < wanted[sku] {
			short = append(short, sku)
		}
	}
	if len(short) > 0 {
		return errs.Ef(errs.CodeInventoryUnavailable, "insufficient stock for %s", strings.Join(short, ", "))
	}
	return nil
}

// Reserve decrements stock for every line and records a reservation that expires
// after the configured TTL. Either every line is reserved or none is.
func (s *Service) Reserve(ctx context.Context, cartID uuid.UUID, lines []cart.Line) (Reservation, error) {
	now := s.clock.Now()
	res := Reservation{ID: uuid.New(), ExpiresAt: now.Add(s.ttl)}

	wanted := demand(lines)
	reserved := make([]shared.ReservationLine, 0, len(wanted))
	for sku, qty := range wanted {
		reserved = append(reserved, shared.ReservationLine{SKU: sku, Quantity: qty})
	}
	// fixed order keeps concurrent reservations from deadlocking on row locks
	sort.Slice(reserved, func(i, j int) bool { return reserved[i].SKU < reserved[j].SKU })

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inv := tx.Inventory()
		for _, l := range reserved {
			ok, err := inv.Decrement(ctx, l.SKU, l.Quantity, now)
			if err != nil {
				return err
			}
			if !ok {
				return errs.Ef(errs.CodeInventoryUnavailable, "insufficient stock for %s", l.SKU)
			}
		}
		return inv.CreateReservation(ctx, res.ID, cartID, reserved, res.ExpiresAt, now)
	})
	if err != nil {
		return Reservation{}, errs.WithCode(err, errs.CodeInventoryUnavailable, "failed to reserve inventory")
	}
	return res, nil
}

// Release returns reserved stock. Releasing twice is a no-op.
func (s *Service) Release(ctx context.Context, reservationID uuid.UUID) error {
	now := s.clock.Now()
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inv := tx.Inventory()
		lines, err := inv.ReleaseReservation(ctx, reservationID, now)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := inv.Increment(ctx, l.SKU, l.Quantity, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.WithCode(err, errs.CodePersistenceFailed, "failed to release inventory reservation")
	}
	return nil
}

func demand(lines []cart.Line) map[string]int32 {
	wanted := make(map[string]int32, len(lines))
	for _, l := range lines {
		wanted[l.SKU] += l.Quantity
	}
	return wanted
}
