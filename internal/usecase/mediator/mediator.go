// Package mediator routes typed requests to their handler through an ordered chain of
// behaviors. The first behavior given to NewDispatcher is the outermost one.
package mediator

import (
	"context"
	"encoding/json"
	"sync"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/pkg/effect"
	"checkout-core/internal/pkg/errs"
)

// Request names must be static per type; they key the handler registry.
type Request interface {
	RequestName() string
}

type Handler[Req Request, Resp any] interface {
	Handle(req Req, tc auth.TrustedContext) effect.Effect[Resp]
}

type HandlerFunc[Req Request, Resp any] func(req Req, tc auth.TrustedContext) effect.Effect[Resp]

func (f HandlerFunc[Req, Resp]) Handle(req Req, tc auth.TrustedContext) effect.Effect[Resp] {
	return f(req, tc)
}

// Invocation is what behaviors see of a dispatch.
type Invocation struct {
	Request Request
	Name    string
	Caller  auth.TrustedContext

	decode func([]byte) (any, error)
}

// Decode parses a JSON-encoded response of the dispatched request's response type.
func (inv Invocation) Decode(data []byte) (any, error) {
	return inv.decode(data)
}

type Next func(ctx context.Context) (any, error)

type Behavior interface {
	Handle(ctx context.Context, inv Invocation, next Next) (any, error)
}

type BehaviorFunc func(ctx context.Context, inv Invocation, next Next) (any, error)

func (f BehaviorFunc) Handle(ctx context.Context, inv Invocation, next Next) (any, error) {
	return f(ctx, inv, next)
}

type Dispatcher struct {
	mu        sync.RWMutex
	handlers  map[string]any
	behaviors []Behavior
}

func NewDispatcher(behaviors ...Behavior) *Dispatcher {
	return &Dispatcher{
		handlers:  make(map[string]any),
		behaviors: behaviors,
	}
}

// Register binds h to the name of Req. Each name takes exactly one handler.
func Register[Req Request, Resp any](d *Dispatcher, h Handler[Req, Resp]) error {
	var req Req
	name := req.RequestName()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[name]; exists {
		return errs.New("handler already registered for " + name)
	}
	d.handlers[name] = h
	return nil
}

func Dispatch[Req Request, Resp any](d *Dispatcher, req Req, tc auth.TrustedContext) effect.Effect[Resp] {
	return func(ctx context.Context) (Resp, error) {
		var zero Resp
		if err := errs.FromContext(ctx); err != nil {
			return zero, err
		}

		name := req.RequestName()
		d.mu.RLock()
		raw, ok := d.handlers[name]
		d.mu.RUnlock()
		if !ok {
			return zero, errs.Ef(errs.CodeUnknown, "no handler registered for %s", name)
		}
		h, ok := raw.(Handler[Req, Resp])
		if !ok {
			return zero, errs.Ef(errs.CodeUnknown, "handler for %s does not match the requested types", name)
		}

		inv := Invocation{Request: req, Name: name, Caller: tc, decode: decodeJSON[Resp]}
		next := Next(func(ctx context.Context) (any, error) {
			return h.Handle(req, tc).Run(ctx)
		})
		for i := len(d.behaviors) - 1; i >= 0; i-- {
			b, inner := d.behaviors[i], next
			next = func(ctx context.Context) (any, error) {
				return b.Handle(ctx, inv, inner)
			}
		}

		v, err := next(ctx)
		if err != nil {
			return zero, err
		}
		out, ok := v.(Resp)
		if !ok {
			return zero, errs.Ef(errs.CodeUnknown, "unexpected response type %T for %s", v, name)
		}
		return out, nil
	}
}

func decodeJSON[T any](data []byte) (any, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
