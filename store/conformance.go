package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/splitweave/errors"
	"github.com/iov-one/splitweave/weavetest/assert"
)

// Opener returns a new, empty store and a function releasing it.
type Opener func() (base CacheableKVStore, cleanup func())

// RunConformance checks that a store implementation layers cache writes
// and iterates the same way the in memory store does. Every ledger
// operation runs inside such a cache, and a distribution relies on
// iteration to find payouts and events.
func RunConformance(t *testing.T, open Opener) {
	t.Run("cache layers", func(t *testing.T) { checkLayers(t, open) })
	t.Run("random operations", func(t *testing.T) {
		for seed := int64(1); seed <= 5; seed++ {
			t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
				checkRandomOps(t, open, seed)
			})
		}
	})
}

func checkLayers(t *testing.T, open Opener) {
	base, cleanup := open()
	defer cleanup()

	splitter, payout, event := []byte("splitter:1"), []byte("payout:1"), []byte("event:1")

	assertValue(t, base, splitter, nil)
	assert.Nil(t, base.Set(splitter, []byte("locked")))
	assertValue(t, base, splitter, []byte("locked"))

	// writes of a cache are visible only through it until written
	cache := base.CacheWrap()
	assertValue(t, cache, splitter, []byte("locked"))
	assert.Nil(t, cache.Set(payout, []byte("33")))
	assert.Nil(t, cache.Set(splitter, []byte("unlocked")))
	assertValue(t, base, payout, nil)
	assertValue(t, base, splitter, []byte("locked"))

	// a nested cache discarded leaves the outer one untouched
	nested := cache.CacheWrap()
	assert.Nil(t, nested.Set(event, []byte("distributed")))
	assert.Nil(t, nested.Delete(payout))
	assertValue(t, nested, payout, nil)
	nested.Discard()
	assertValue(t, cache, payout, []byte("33"))
	assertValue(t, cache, event, nil)

	assert.Nil(t, cache.Write())
	assertValue(t, base, payout, []byte("33"))
	assertValue(t, base, splitter, []byte("unlocked"))

	// a delete hides the value of the parent
	cache = base.CacheWrap()
	assert.Nil(t, cache.Delete(splitter))
	assertValue(t, cache, splitter, nil)
	assertValue(t, base, splitter, []byte("unlocked"))
	assert.Nil(t, cache.Write())
	assertValue(t, base, splitter, nil)
}

// checkRandomOps applies random writes to a store and a cache on top of
// it, and compares every read and iteration with a plain map.
func checkRandomOps(t *testing.T, open Opener, seed int64) {
	base, cleanup := open()
	defer cleanup()

	r := rand.New(rand.NewSource(seed))
	keys := make([][]byte, 40)
	for i := range keys {
		keys[i] = randBytes(r, 1+r.Intn(12))
	}

	want := make(map[string][]byte)
	apply := func(kv KVStore, n int) {
		for i := 0; i < n; i++ {
			k := keys[r.Intn(len(keys))]
			if r.Intn(3) == 0 {
				assert.Nil(t, kv.Delete(k))
				delete(want, string(k))
			} else {
				v := randBytes(r, 1+r.Intn(20))
				assert.Nil(t, kv.Set(k, v))
				want[string(k)] = v
			}
		}
	}

	apply(base, 60)
	child := base.CacheWrap()
	apply(child, 60)

	for _, k := range keys {
		assertValue(t, child, k, want[string(k)])
	}
	for i := 0; i < 10; i++ {
		var start, end []byte
		if i%3 != 0 {
			start = keys[r.Intn(len(keys))]
		}
		if i%2 != 0 {
			end = keys[r.Intn(len(keys))]
		}
		if start != nil && end != nil && bytes.Compare(start, end) > 0 {
			start, end = end, start
		}
		assertRange(t, child, want, start, end)
	}

	assert.Nil(t, child.Write())
	assertRange(t, base, want, nil, nil)
}

func assertValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(want, got) {
		t.Fatalf("key %X: want %X, got %X", key, want, got)
	}
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

// assertRange compares iteration over [start, end) in both directions with
// the content of the map.
func assertRange(t testing.TB, kv ReadOnlyKVStore, content map[string][]byte, start, end []byte) {
	t.Helper()
	var want []Model
	for k, v := range content {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		want = append(want, Pair(key, v))
	}
	sort.Slice(want, func(i, j int) bool { return bytes.Compare(want[i].Key, want[j].Key) < 0 })

	it, err := kv.Iterator(start, end)
	assert.Nil(t, err)
	assertIterated(t, it, want)

	for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
		want[i], want[j] = want[j], want[i]
	}
	it, err = kv.ReverseIterator(start, end)
	assert.Nil(t, err)
	assertIterated(t, it, want)
}

func assertIterated(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(m.Key, key) || !bytes.Equal(m.Value, value) {
			t.Fatalf("item %d: want %X=%X, got %X=%X", i, m.Key, m.Value, key, value)
		}
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want iterator done, got %v", err)
	}
}

func randBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}
