/*
Package sigs authenticates transactions by their ed25519 signatures.

Every signature carries the nonce of its key. The nonce is stored in the
account of the key and grows with every delivered signature, so that a
signed transaction cannot be replayed. A verified signature grants the
condition of its key, and nothing else grants a signature condition.
*/
package sigs

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// Decorator verifies signatures and puts the conditions of the signing keys
// in the context, where Authenticate finds them.
type Decorator struct {
	allowUnsigned bool
}

var _ weave.Decorator = Decorator{}

// NewDecorator returns a decorator rejecting unsigned transactions.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a decorator passing unsigned transactions along
// with no conditions. Signatures present are still verified.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowUnsigned = true
	return d
}

func (d Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	ctx, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate returns the context with the signers of the transaction. A
// transaction that cannot carry signatures has none.
func (d Decorator) authenticate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Context, error) {
	var signers []weave.Condition
	if stx, ok := tx.(SignedTx); ok {
		var err error
		signers, err = VerifyTxSignatures(db, stx, weave.GetChainID(ctx))
		if err != nil {
			return nil, errors.Wrap(err, "cannot verify signatures")
		}
	}
	if len(signers) == 0 && !d.allowUnsigned {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
