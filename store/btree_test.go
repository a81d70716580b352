package store

import (
	"testing"

	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/weavetest/assert"
)

func makeMemBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeStore(t *testing.T) {
	RunConformance(t, makeMemBase)
}

func TestBTreeDiscardDropsPendingWrites(t *testing.T) {
	base := MemStore()
	k, v := []byte("recipient"), []byte("weight")

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	cache.Discard()
	// Write after discard must not resurrect discarded operations.
	assert.Nil(t, cache.Write())

	got, err := base.Get(k)
	assert.Nil(t, err)
	if got != nil {
		t.Fatalf("discarded value found: %q", got)
	}
}

func TestBTreeNestedSavepoints(t *testing.T) {
	base := MemStore()
	assert.Nil(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	assert.Nil(t, outer.Set([]byte("b"), []byte("2")))

	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set([]byte("c"), []byte("3")))
	assert.Nil(t, inner.Delete([]byte("a")))
	inner.Discard()

	assert.Nil(t, outer.Write())

	it, err := base.Iterator(nil, nil)
	assert.Nil(t, err)
	defer it.Release()

	var keys []string
	for {
		key, _, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		keys = append(keys, string(key))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestIteratorIsIsolatedFromWrites(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("a"), []byte("A")))
	cache := db.CacheWrap()

	it, err := cache.Iterator([]byte("a"), []byte("z"))
	assert.Nil(t, err)
	assert.Nil(t, cache.Set([]byte("b"), []byte("B")))

	key, value, err := it.Next()
	assert.Nil(t, err)
	assert.Equal(t, []byte("a"), key)
	assert.Equal(t, []byte("A"), value)
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %v", err)
	}
	it.Release()
}
