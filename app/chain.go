package app

import (
	"reflect"

	weave "github.com/iov-one/splitweave"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator runs first.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator().AllowMissingSigs(),
//     utils.NewSavepoint().OnDeliver(),
//   ).WithHandler(router)
type Decorators struct {
	chain []weave.Decorator
}

// ChainDecorators returns the decorators in the given order. Nil values,
// including typed nil pointers, are skipped, so that optional decorators
// can be passed unconditionally.
func ChainDecorators(ds ...weave.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a copy of the list extended with more decorators.
func (d Decorators) Chain(ds ...weave.Decorator) Decorators {
	chain := make([]weave.Decorator, 0, len(d.chain)+len(ds))
	chain = append(chain, d.chain...)
	for _, dec := range ds {
		if !isNil(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNil(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler running all decorators around h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{dec: d.chain[i], next: h}
	}
	return h
}

// step is a single decorator bound to the rest of the stack.
type step struct {
	dec  weave.Decorator
	next weave.Handler
}

var _ weave.Handler = step{}

func (s step) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.dec.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.dec.Deliver(ctx, db, tx, s.next)
}
