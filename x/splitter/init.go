package splitter

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/gconf"
)

// Initializer stores the splitter configuration declared in the genesis
// file. Without one the defaults are used.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	conf := DefaultConfiguration()
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
