package cash

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// GenesisBalance is a single initial balance declared in the genesis file.
// Amounts may be negative to seed assets that carry debt.
type GenesisBalance struct {
	Asset  weave.Address `json:"asset"`
	Holder weave.Address `json:"holder"`
	Amount int64         `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial balances from genesis and save them to
// the database.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var balances []GenesisBalance
	if err := opts.ReadOptions("cash", &balances); err != nil {
		return errors.Wrap(err, "cannot load cash genesis")
	}
	bucket := NewBalanceBucket()
	for i, b := range balances {
		key := BalanceKey(b.Asset, b.Holder)
		if ok, err := bucket.Has(db, key); err != nil {
			return err
		} else if ok {
			return errors.Wrapf(errors.ErrDuplicate, "balance %d", i)
		}
		if err := bucket.Set(db, b.Asset, b.Holder, b.Amount); err != nil {
			return errors.Wrapf(err, "balance %d", i)
		}
	}
	return nil
}
