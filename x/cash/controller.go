package cash

import (
	"context"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// maxHookDepth limits how many receiver hooks may be nested within a single
// top level transfer.
const maxHookDepth = 16

// Receiver is code attached to a contract address. It is called after a
// transfer to that address lands, with the ledger state already updated.
// Returning an error aborts the transfer that triggered it.
type Receiver interface {
	OnReceive(ctx weave.Context, db weave.KVStore, asset, from weave.Address, amount int64) error
}

// ReceiverFunc adapts a function to the Receiver interface.
type ReceiverFunc func(ctx weave.Context, db weave.KVStore, asset, from weave.Address, amount int64) error

// OnReceive calls fn.
func (fn ReceiverFunc) OnReceive(ctx weave.Context, db weave.KVStore, asset, from weave.Address, amount int64) error {
	return fn(ctx, db, asset, from, amount)
}

// Controller is the asset ledger capability other extensions depend on.
type Controller interface {
	// Balance returns the amount of asset held by holder. Unknown holders
	// own nothing.
	Balance(db weave.ReadOnlyKVStore, asset, holder weave.Address) (int64, error)
	// Transfer moves a positive amount of asset from one holder to
	// another and runs the receiver hook of the destination.
	Transfer(ctx weave.Context, db weave.KVStore, asset, from, to weave.Address, amount int64) error
	// Mint creates a positive amount of asset for the holder.
	Mint(ctx weave.Context, db weave.KVStore, asset, to weave.Address, amount int64) error
}

// BaseController is the Controller implementation backed by the
// BalanceBucket.
type BaseController struct {
	bucket    BalanceBucket
	receivers map[string]Receiver
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller with no receivers registered.
func NewController(bucket BalanceBucket) *BaseController {
	return &BaseController{
		bucket:    bucket,
		receivers: make(map[string]Receiver),
	}
}

// RegisterReceiver attaches a hook to the given address. Registering
// a second hook for the same address replaces the first one.
func (c *BaseController) RegisterReceiver(addr weave.Address, r Receiver) {
	c.receivers[string(addr)] = r
}

// Balance returns the amount of asset held by holder.
func (c *BaseController) Balance(db weave.ReadOnlyKVStore, asset, holder weave.Address) (int64, error) {
	if err := asset.Validate(); err != nil {
		return 0, errors.Wrap(err, "asset")
	}
	if err := holder.Validate(); err != nil {
		return 0, errors.Wrap(err, "holder")
	}
	return c.bucket.Amount(db, asset, holder)
}

// Transfer moves amount of asset from one holder to another. It fails if
// the source does not hold enough or the destination would overflow.
func (c *BaseController) Transfer(ctx weave.Context, db weave.KVStore, asset, from, to weave.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive transfer %d", amount)
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	have, err := c.Balance(db, asset, from)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, amount)
	}

	if !from.Equals(to) {
		if err := c.bucket.Set(db, asset, from, have-amount); err != nil {
			return errors.Wrap(err, "cannot save source balance")
		}
		if err := c.add(db, asset, to, amount); err != nil {
			return err
		}
	}

	r, ok := c.receivers[string(to)]
	if !ok {
		return nil
	}
	depth := hookDepth(ctx)
	if depth >= maxHookDepth {
		return errors.Wrapf(ErrHookDepth, "depth %d", depth)
	}
	if err := r.OnReceive(withHookDepth(ctx, depth+1), db, asset, from, amount); err != nil {
		return errors.Wrapf(err, "receiver %s", to)
	}
	return nil
}

// Mint issues new units of asset to the holder.
func (c *BaseController) Mint(ctx weave.Context, db weave.KVStore, asset, to weave.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive mint %d", amount)
	}
	if err := asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return c.add(db, asset, to, amount)
}

func (c *BaseController) add(db weave.KVStore, asset, to weave.Address, amount int64) error {
	have, err := c.bucket.Amount(db, asset, to)
	if err != nil {
		return err
	}
	sum := have + amount
	// amount is always positive here
	if sum < have {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", to)
	}
	if err := c.bucket.Set(db, asset, to, sum); err != nil {
		return errors.Wrap(err, "cannot save destination balance")
	}
	return nil
}

type contextKey int

const contextKeyHookDepth contextKey = iota

func withHookDepth(ctx weave.Context, depth int) weave.Context {
	return context.WithValue(ctx, contextKeyHookDepth, depth)
}

func hookDepth(ctx weave.Context) int {
	n, _ := ctx.Value(contextKeyHookDepth).(int)
	return n
}
