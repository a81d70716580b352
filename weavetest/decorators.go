package weavetest

import weave "github.com/iov-one/splitweave"

// Decorator is a weave.Decorator that either fails with the configured
// error, without calling the next handler, or passes the call along.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error
}

var _ weave.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate wraps the handler with the decorators. The first decorator is
// the outermost one.
func Decorate(h weave.Handler, ds ...weave.Decorator) weave.Handler {
	for i := len(ds) - 1; i >= 0; i-- {
		h = decorated{next: h, dec: ds[i]}
	}
	return h
}

type decorated struct {
	next weave.Handler
	dec  weave.Decorator
}

func (d decorated) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
