package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/splitweave/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// btreeIter is a snapshot of a btree range. Items are collected when the
// iterator is created, so that writes to the tree that happen while the
// iterator is in use cannot affect it.
type btreeIter struct {
	items []btree.Item
	idx   int
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

func collectBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	insert := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, insert)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, insert)
	}
	return items
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	return &btreeIter{items: collectBtree(bt, start, end)}
}

// descendBtree uses the same range semantic as ascendBtree: start is
// inclusive, end is exclusive. Only the order is reversed.
func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	items := collectBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return &btreeIter{items: items}
}

func (b *btreeIter) next() {
	b.idx++
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() entry {
	return b.items[b.idx].(entry)
}

func (b *btreeIter) valid() bool {
	return b.idx < len(b.items)
}

func (b *btreeIter) release() {
	b.items = nil
	b.idx = 0
}

// itemIter combines the content of a cache layer with the iterator of the
// parent store, taking into consideration overwrites and deletes.
type itemIter struct {
	wrap    *btreeIter
	reverse bool

	parent Iterator
	// Parent iterator is read ahead by one element, so that its key can be
	// compared with the cached one.
	pkey, pvalue []byte
	pdone        bool
	perr         error
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(wrap *btreeIter, parent Iterator, reverse bool) *itemIter {
	it := &itemIter{
		wrap:    wrap,
		reverse: reverse,
		parent:  parent,
	}
	it.advanceParent()
	return it
}

func (i *itemIter) advanceParent() {
	if i.pdone {
		return
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.pkey, i.pvalue = key, value
	case errors.ErrIteratorDone.Is(err):
		i.pkey, i.pvalue, i.pdone = nil, nil, true
	default:
		i.pkey, i.pvalue, i.pdone = nil, nil, true
		i.perr = err
	}
}

// Next returns the next key/value pair, skipping all deleted entries.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if i.perr != nil {
			return nil, nil, i.perr
		}
		src := i.firstKey()
		switch src {
		case none:
			return nil, nil, errors.ErrIteratorDone
		case parent:
			key, value = i.pkey, i.pvalue
			i.advanceParent()
			return key, value, nil
		}

		// us or both, the cached value always wins
		item := i.wrap.get()
		i.wrap.next()
		if src == both {
			i.advanceParent()
		}
		if !item.deleted {
			return item.key, item.value, nil
		}
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.wrap.release()
}

// firstKey selects the iterator with the lowest key (highest when iterating
// in reverse) if any.
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if i.pdone {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	cmp := bytes.Compare(i.pkey, i.wrap.get().key)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
