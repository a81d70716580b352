package factory

import (
	"context"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/gconf"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// GenesisFactory is a factory initialized by the genesis file.
type GenesisFactory struct {
	Address  weave.Address `json:"address"`
	Template cmn.HexBytes  `json:"template"`
}

// Initializer stores the factory configuration and initializes the
// factories declared in the genesis file. Templates must be installed
// before this initializer runs.
type Initializer struct {
	Controller Controller
}

var _ weave.Initializer = (*Initializer)(nil)

func (i *Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	conf := DefaultConfiguration()
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}

	var factories []GenesisFactory
	if err := opts.ReadOptions("factories", &factories); err != nil {
		return errors.Wrap(err, "cannot load factories")
	}
	if len(factories) == 0 {
		return nil
	}
	// Genesis is processed before the first block.
	ctx := weave.WithHeight(context.Background(), 0)
	for n, f := range factories {
		if err := i.Controller.Init(ctx, db, f.Address, f.Template); err != nil {
			return errors.Wrapf(err, "factory %d", n)
		}
	}
	return nil
}
