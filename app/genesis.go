package app

import (
	"encoding/json"
	"io/ioutil"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrNotFound, "loading genesis file: %s", err)
	}

	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// LoadGenesis reads the genesis file and initializes the chain state with
// the app_state it contains. This is the equivalent of an InitChain call
// without a tendermint node.
func (s *StoreApp) LoadGenesis(filePath string, init weave.Initializer) error {
	gen, err := LoadGenesis(filePath)
	if err != nil {
		return err
	}
	return s.parseAppState(gen.AppState, gen.ChainID, init)
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []weave.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
