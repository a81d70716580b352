package orm

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/splitweave"
	"github.com/iov-one/splitweave/errors"
)

// Indexer calculates the secondary index value of an object. Returning nil
// means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// Index is a secondary index of a bucket. Each entry is a separate database
// key built from the index value and the primary key of the object:
//
//    _i.<bucket>_<name>:<varint len(value)><value><primary key>
//
// Length prefixing the value ensures that values sharing a prefix never
// match each other.
type Index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
	refKey  func([]byte) []byte
}

var _ weave.QueryHandler = Index{}

// NewIndex creates an index. refKey is used to build the database key of a
// referenced object when the index is queried.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return Index{
		name:    name,
		prefix:  []byte("_i." + name + ":"),
		indexer: indexer,
		unique:  unique,
		refKey:  refKey,
	}
}

func (i Index) valuePrefix(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value)+2)
	out = append(out, i.prefix...)
	out = append(out, proto.EncodeVarint(uint64(len(value)))...)
	return append(out, value...)
}

func (i Index) entryKey(value, pk []byte) []byte {
	return append(i.valuePrefix(value), pk...)
}

// Update removes the entry of the previous version of an object and writes
// the entry for the new one. Either prev or save can be nil, but not both.
func (i Index) Update(db weave.KVStore, prev Object, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one object")
	}

	if prev != nil {
		old, err := i.indexer(prev)
		if err != nil {
			return errors.Wrap(err, "cannot index previous object")
		}
		if old != nil {
			if err := db.Delete(i.entryKey(old, prev.Key())); err != nil {
				return errors.Wrap(err, "cannot delete index entry")
			}
		}
	}

	if save == nil {
		return nil
	}
	value, err := i.indexer(save)
	if err != nil {
		return errors.Wrap(err, "cannot index object")
	}
	if value == nil {
		return nil
	}
	if i.unique {
		refs, err := i.GetAt(db, value)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if !bytes.Equal(ref, save.Key()) {
				return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
			}
		}
	}
	if err := db.Set(i.entryKey(value, save.Key()), []byte{1}); err != nil {
		return errors.Wrap(err, "cannot write index entry")
	}
	return nil
}

// GetAt returns the primary keys of all objects indexed with given value,
// in ascending order.
func (i Index) GetAt(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := i.valuePrefix(value)
	entries, err := queryPrefix(db, prefix)
	if err != nil {
		return nil, err
	}
	refs := make([][]byte, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Key[len(prefix):])
	}
	return refs, nil
}

// Query returns all objects indexed with the value given as data. Only the
// key query mode is supported.
func (i Index) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown mod: %s", mod)
	}
	refs, err := i.GetAt(db, data)
	if err != nil {
		return nil, err
	}
	var res []weave.Model
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			res = append(res, weave.Model{Key: key, Value: value})
		}
	}
	return res, nil
}
