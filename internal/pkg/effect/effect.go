// Package effect holds the deferred computation used to build pipelines.
// An Effect does nothing until Run is called; Map and Bind only build bigger Effects.
package effect

import (
	"context"
	"fmt"

	"checkout-core/internal/pkg/errs"
)

type Effect[T any] func(ctx context.Context) (T, error)

// Run executes the effect. A panic inside it becomes an Unknown failure.
func (e Effect[T]) Run(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = errs.Recode(fmt.Errorf("panic: %v", r), errs.CodeUnknown, "unexpected failure")
		}
	}()
	return e(ctx)
}

func (e Effect[T]) Attempt(ctx context.Context) Outcome[T] {
	v, err := e.Run(ctx)
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

func Pure[T any](v T) Effect[T] {
	return func(context.Context) (T, error) {
		return v, nil
	}
}

func Fail[T any](err error) Effect[T] {
	return func(context.Context) (T, error) {
		var zero T
		return zero, err
	}
}

// Lift turns a leaf I/O call into an Effect, coding any raw error it returns.
func Lift[T any](fn func(ctx context.Context) (T, error), code errs.Code, msg string) Effect[T] {
	return func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, errs.WithCode(err, code, msg)
		}
		return v, nil
	}
}

func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	return func(ctx context.Context) (B, error) {
		a, err := e.Run(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}
}

// Bind runs f on the value of e. f is never called when e fails.
func Bind[A, B any](e Effect[A], f func(A) Effect[B]) Effect[B] {
	return func(ctx context.Context) (B, error) {
		a, err := e.Run(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a).Run(ctx)
	}
}

// Tap runs a side effect on success and keeps the original value. Its failure is returned.
func Tap[T any](e Effect[T], f func(ctx context.Context, v T) error) Effect[T] {
	return func(ctx context.Context) (T, error) {
		v, err := e.Run(ctx)
		if err != nil {
			return v, err
		}
		if err := f(ctx, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}
}

// MapError rewrites the failure of e. Successes pass through.
func MapError[T any](e Effect[T], f func(error) error) Effect[T] {
	return func(ctx context.Context) (T, error) {
		v, err := e.Run(ctx)
		if err != nil {
			return v, f(err)
		}
		return v, nil
	}
}

// Sequence threads a value through steps in order and stops at the first failure.
// A canceled context stops it before the next step starts.
func Sequence[T any](initial T, steps ...func(T) Effect[T]) Effect[T] {
	return func(ctx context.Context) (T, error) {
		cur := initial
		for _, step := range steps {
			if err := errs.FromContext(ctx); err != nil {
				var zero T
				return zero, err
			}
			next, err := step(cur).Run(ctx)
			if err != nil {
				var zero T
				return zero, err
			}
			cur = next
		}
		return cur, nil
	}
}
