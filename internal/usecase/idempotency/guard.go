package idempotency

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/effect"
	"checkout-core/internal/pkg/errs"
)

// Keyed is implemented by requests that carry their own idempotency key.
type Keyed interface {
	IdempotencyKey() string
	IdempotencyScope() string
	Fingerprint() string
}

// Key identifies one guarded call. A zero TTL falls back to the guard default.
type Key struct {
	Scope       string
	Key         string
	Fingerprint string
	TTL         time.Duration
}

// unencodableResponse completes a lock whose result could not be stored. Replays of
// it fail with Unknown instead of running the side effect again.
var unencodableResponse = []byte(`"idempotency:unencodable-response"`)

func KeyOf(k Keyed) Key {
	return Key{Scope: k.IdempotencyScope(), Key: k.IdempotencyKey(), Fingerprint: k.Fingerprint()}
}

type Guard struct {
	store  Store
	logger *slog.Logger
	ttl    time.Duration
}

func NewGuard(store Store, logger *slog.Logger, cfg config.Config) *Guard {
	return &Guard{store: store, logger: logger, ttl: cfg.Idempotency.TTL}
}

// WithIdempotency runs eff at most once per (scope, key). Successful results are
// stored as JSON and replayed to later callers presenting the same fingerprint.
func WithIdempotency[T any](g *Guard, k Key, eff effect.Effect[T]) effect.Effect[T] {
	if k.Key == "" {
		return eff
	}
	return func(ctx context.Context) (T, error) {
		var zero T
		v, err := g.run(ctx, k,
			func(ctx context.Context) (any, error) { return eff.Run(ctx) },
			func(data []byte) (any, error) {
				var out T
				if err := json.Unmarshal(data, &out); err != nil {
					return nil, err
				}
				return out, nil
			},
		)
		if err != nil {
			return zero, err
		}
		out, ok := v.(T)
		if !ok {
			return zero, errs.Ef(errs.CodeUnknown, "unexpected idempotent result type %T", v)
		}
		return out, nil
	}
}

// Run is the untyped form used by the dispatcher, where the result type is only
// known through decode.
func (g *Guard) Run(ctx context.Context, k Key, next func(context.Context) (any, error), decode func([]byte) (any, error)) (any, error) {
	if k.Key == "" {
		return next(ctx)
	}
	return g.run(ctx, k, next, decode)
}

func (g *Guard) run(ctx context.Context, k Key, next func(context.Context) (any, error), decode func([]byte) (any, error)) (any, error) {
	ttl := k.TTL
	if ttl <= 0 {
		ttl = g.ttl
	}
	attrs := []any{slog.String("scope", k.Scope), slog.String("key", k.Key)}

	lookup, err := g.store.TryAcquire(ctx, k.Scope, k.Key, k.Fingerprint, ttl)
	if err != nil {
		return nil, errs.WithCode(err, errs.CodePersistenceFailed, "idempotency store unavailable")
	}

	switch lookup.Decision {
	case Acquired:
		return g.runAcquired(ctx, k, lookup, attrs, next)

	case DuplicateSameDone:
		if bytes.Equal(bytes.TrimSpace(lookup.Response), unencodableResponse) {
			g.logger.ErrorContext(ctx, "Cached idempotent response was never stored", attrs...)
			return nil, errs.E(errs.CodeUnknown, "cached response could not be decoded")
		}
		v, err := decode(lookup.Response)
		if err != nil {
			g.logger.ErrorContext(ctx, "Cached idempotent response could not be decoded", append(attrs, slog.Any("error", err))...)
			return nil, errs.Recode(err, errs.CodeUnknown, "cached response could not be decoded")
		}
		markReplayed(ctx)
		g.logger.InfoContext(ctx, "Replayed idempotent response", attrs...)
		return v, nil

	case DuplicateSameBusy:
		return nil, errs.E(errs.CodeConflictBusy, "operation in progress")

	case DuplicateDifferent:
		g.logger.WarnContext(ctx, "Idempotency key reused with different payload", attrs...)
		return nil, errs.E(errs.CodeConflictKeyReused, "idempotency key reused with different payload")
	}

	return nil, errs.Ef(errs.CodeUnknown, "unexpected idempotency decision %s", lookup.Decision)
}

func (g *Guard) runAcquired(ctx context.Context, k Key, lookup Lookup, attrs []any, next func(context.Context) (any, error)) (any, error) {
	v, err := next(ctx)
	if err != nil {
		// a canceled caller leaves the lock to expire
		if ctx.Err() != nil {
			g.logger.WarnContext(ctx, "Guarded operation canceled, lock left to expire", append(attrs, slog.Any("error", err))...)
			return nil, err
		}
		if abandonErr := g.store.Abandon(ctx, k.Scope, k.Key, lookup.Lease); abandonErr != nil {
			g.logger.ErrorContext(ctx, "Failed to abandon idempotency lock", append(attrs, slog.Any("error", abandonErr))...)
		}
		return nil, err
	}

	// the side effect already happened, so recording it must outlive the caller
	completeCtx := context.WithoutCancel(ctx)
	payload, err := json.Marshal(v)
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to encode idempotent response, completing lock without it", append(attrs, slog.Any("error", err))...)
		payload = unencodableResponse
	}
	if err := g.store.Complete(completeCtx, k.Scope, k.Key, lookup.Lease, payload); err != nil {
		g.logger.WarnContext(ctx, "Failed to complete idempotency lock", append(attrs, slog.Any("error", err))...)
	}
	return v, nil
}
