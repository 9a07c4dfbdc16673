package effect

import "context"

// Outcome is either a value or an error, never both.
type Outcome[T any] struct {
	value T
	err   error
}

func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

func Failure[T any](err error) Outcome[T] {
	if err == nil {
		panic("effect: Failure requires a non-nil error")
	}
	return Outcome[T]{err: err}
}

func (o Outcome[T]) IsSuccess() bool {
	return o.err == nil
}

func (o Outcome[T]) Value() T {
	return o.value
}

func (o Outcome[T]) Err() error {
	return o.err
}

func (o Outcome[T]) Get() (T, error) {
	return o.value, o.err
}

func Match[T, R any](o Outcome[T], onSuccess func(T) R, onFailure func(error) R) R {
	if o.err != nil {
		return onFailure(o.err)
	}
	return onSuccess(o.value)
}

// FromOutcome lifts an already computed Outcome back into an Effect.
func FromOutcome[T any](o Outcome[T]) Effect[T] {
	return func(_ context.Context) (T, error) {
		return o.value, o.err
	}
}
