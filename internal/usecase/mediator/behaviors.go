package mediator

import (
	"context"
	"log/slog"
	"time"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/idempotency"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "checkout-core/mediator"

type TracingBehavior struct {
	tracer trace.Tracer
}

func NewTracingBehavior(tp trace.TracerProvider) *TracingBehavior {
	return &TracingBehavior{tracer: tp.Tracer(tracerName)}
}

func (b *TracingBehavior) Handle(ctx context.Context, inv Invocation, next Next) (any, error) {
	ctx, span := b.tracer.Start(ctx, inv.Name,
		trace.WithAttributes(
			attribute.String("request.name", inv.Name),
			attribute.String("caller.id", inv.Caller.ID.String()),
		),
	)
	defer span.End()

	v, err := next(ctx)
	if err != nil {
		span.SetAttributes(attribute.String("error.code", string(errs.CodeOf(err))))
		span.RecordError(err)
		span.SetStatus(codes.Error, errs.MessageOf(err))
	}
	return v, err
}

// Anonymous marks requests that may be dispatched without an authenticated caller.
type Anonymous interface {
	AllowAnonymous()
}

// Authorizer is implemented by requests with their own access rule.
type Authorizer interface {
	Authorize(tc auth.TrustedContext) error
}

type AuthorizationBehavior struct{}

func NewAuthorizationBehavior() *AuthorizationBehavior {
	return &AuthorizationBehavior{}
}

func (b *AuthorizationBehavior) Handle(ctx context.Context, inv Invocation, next Next) (any, error) {
	if _, ok := inv.Request.(Anonymous); !ok && !inv.Caller.Authenticated {
		return nil, errs.E(errs.CodeUnauthorized, "authentication required")
	}
	if a, ok := inv.Request.(Authorizer); ok {
		if err := a.Authorize(inv.Caller); err != nil {
			return nil, errs.WithCode(err, errs.CodeForbidden, "access denied")
		}
	}
	return next(ctx)
}

// IdempotencyBehavior guards requests implementing idempotency.Keyed. Locks are
// scoped to the caller, so a cached result is only replayed to whoever produced it.
type IdempotencyBehavior struct {
	guard *idempotency.Guard
}

func NewIdempotencyBehavior(guard *idempotency.Guard) *IdempotencyBehavior {
	return &IdempotencyBehavior{guard: guard}
}

func (b *IdempotencyBehavior) Handle(ctx context.Context, inv Invocation, next Next) (any, error) {
	keyed, ok := inv.Request.(idempotency.Keyed)
	if !ok {
		return next(ctx)
	}
	k := idempotency.KeyOf(keyed)
	k.Scope = idempotency.CallerScope(k.Scope, inv.Caller.ID)
	return b.guard.Run(ctx, k, next, inv.Decode)
}

type LoggingBehavior struct {
	logger *slog.Logger
}

func NewLoggingBehavior(logger *slog.Logger) *LoggingBehavior {
	return &LoggingBehavior{logger: logger}
}

func (b *LoggingBehavior) Handle(ctx context.Context, inv Invocation, next Next) (any, error) {
	start := time.Now()
	v, err := next(ctx)

	attrs := []any{
		slog.String("request", inv.Name),
		slog.String("caller_id", inv.Caller.ID.String()),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		code := errs.CodeOf(err)
		attrs = append(attrs, slog.String("code", string(code)), slog.Any("error", err))
		if code == errs.CodeUnknown || code == errs.CodePersistenceFailed {
			b.logger.ErrorContext(ctx, "Request failed", attrs...)
		} else {
			b.logger.WarnContext(ctx, "Request failed", attrs...)
		}
		return v, err
	}
	b.logger.InfoContext(ctx, "Request handled", attrs...)
	return v, nil
}
