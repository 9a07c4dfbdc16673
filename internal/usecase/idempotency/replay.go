package idempotency

import (
	"context"
	"sync/atomic"
)

type replayTrackerKey struct{}

// ReplayTracker records whether a call was answered from the cache.
type ReplayTracker struct {
	replayed atomic.Bool
}

func WithReplayTracker(ctx context.Context) (context.Context, *ReplayTracker) {
	t := &ReplayTracker{}
	return context.WithValue(ctx, replayTrackerKey{}, t), t
}

func (t *ReplayTracker) Replayed() bool {
	return t.replayed.Load()
}

func markReplayed(ctx context.Context) {
	if t, ok := ctx.Value(replayTrackerKey{}).(*ReplayTracker); ok {
		t.replayed.Store(true)
	}
}
