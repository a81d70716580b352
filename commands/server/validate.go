package server

import (
	"encoding/json"
	"io/ioutil"

	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/store"
)

// ValidateGenesis runs the initializer over the app_state of every given
// genesis file. The state is discarded.
func ValidateGenesis(ini weave.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini weave.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var genesis struct {
		ChainID string        `json:"chain_id"`
		State   weave.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(err, "cannot JSON deserialize genesis")
	}
	if !weave.IsValidChainID(genesis.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid chain id %q", genesis.ChainID)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}

	return nil
}
