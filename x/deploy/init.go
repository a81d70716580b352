package deploy

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// Initializer installs the templates listed in the genesis file.
type Initializer struct{}

var _ weave.Initializer = (*Initializer)(nil)

// FromGenesis reads the "templates" list of code strings.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var codes []string
	if err := opts.ReadOptions("templates", &codes); err != nil {
		return errors.Wrap(err, "cannot load templates")
	}
	for i, code := range codes {
		if _, err := Install(db, []byte(code)); err != nil {
			return errors.Wrapf(err, "template %d", i)
		}
	}
	return nil
}
