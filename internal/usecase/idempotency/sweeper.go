package idempotency

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"checkout-core/internal/pkg/config"
)

type Sweepable interface {
	Sweep(ctx context.Context) (int64, error)
}

// Sweeper periodically deletes expired locks left behind by crashed or canceled callers.
type Sweeper struct {
	store    Sweepable
	logger   *slog.Logger
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSweeper(store Sweepable, logger *slog.Logger, cfg config.Config) *Sweeper {
	return &Sweeper{store: store, logger: logger, interval: cfg.Idempotency.SweepInterval}
}

func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.store.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "Failed to sweep expired idempotency locks", slog.Any("error", err))
		}
		return 0
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "Swept expired idempotency locks", slog.Int64("count", n))
	}
	return n
}
