package app

import (
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// CommitStore keeps the committed ledger state together with the two
// caches a block is processed in. CheckTx runs against its own cache, so
// that checking never changes what DeliverTx sees. Both caches are
// replaced on every commit.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest committed version of the store.
func NewCommitStore(store weave.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes everything delivered in the block and persists a new
// version. Changes made by CheckTx are dropped.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "write block")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	cs.reset()
	return id, nil
}

// CheckStore is the store CheckTx must use.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

// DeliverStore is the store DeliverTx and genesis must use.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// chainIDKey is kept apart from all extension buckets, that never use an
// underscore prefix.
var chainIDKey = []byte("_app:chain_id")

// ChainID returns the chain id set at genesis, or an empty string before
// genesis.
func (cs *CommitStore) ChainID() (string, error) {
	raw, err := cs.deliver.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(raw), nil
}

// SetChainID stores the chain id. It can be set only once. Signatures are
// bound to it, so it never changes for the life of the ledger.
func (cs *CommitStore) SetChainID(chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	current, err := cs.ChainID()
	if err != nil {
		return err
	}
	if current != "" {
		return errors.Wrapf(errors.ErrImmutable, "chain id already set to %q", current)
	}
	if err := cs.deliver.Set(chainIDKey, []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
