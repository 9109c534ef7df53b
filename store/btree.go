package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree keeps nodes small. Cache layers live for a single block or
// transaction and rarely hold more than a few hundred entries.
const btreeDegree = 2

// BTreeCacheable gives any KVStore btree backed cache layers.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a non persistent store. Writes are kept in the cache
// layer and never flushed.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, NewNonAtomicBatch(EmptyKVStore{}), nil)
}

// ShowOpser exposes the operations recorded by a batch.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore is MemStore that records every write it receives.
func LogableStore() (CacheableKVStore, ShowOpser) {
	batch := NewNonAtomicBatch(EmptyKVStore{})
	return NewBTreeCacheWrap(EmptyKVStore{}, batch, nil), batch
}

// BTreeCacheWrap keeps pending writes in a btree, in front of a read only
// parent. Writes are also recorded in a batch that is applied on Write.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache layer over parent. Nested layers may
// share the node free list of their parent, a nil list allocates a new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all pending changes into the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.Discard()
	return err
}

// Discard drops all pending changes.
func (c BTreeCacheWrap) Discard() {
	for c.tree.DeleteMin() != nil {
	}
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(cached{key: key, value: value})
	return c.batch.Set(key, value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(cached{key: key, deleted: true})
	return c.batch.Delete(key)
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	item, ok := c.lookup(key)
	if !ok {
		return c.parent.Get(key)
	}
	return item.value, nil
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	item, ok := c.lookup(key)
	if !ok {
		return c.parent.Has(key)
	}
	return !item.deleted, nil
}

// lookup returns the pending change for key, if any.
func (c BTreeCacheWrap) lookup(key []byte) (cached, bool) {
	item := c.tree.Get(cached{key: key})
	if item == nil {
		return cached{}, false
	}
	return item.(cached), true
}

// Iterator merges pending changes with the parent content of [start, end)
// in ascending key order.
func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(c.pending(start, end, true), parent, true)
}

// ReverseIterator is Iterator in descending key order.
func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newCacheIterator(c.pending(start, end, false), parent, false)
}

// pending returns a snapshot of the changes within [start, end). A nil
// bound is open.
func (c BTreeCacheWrap) pending(start, end []byte, ascending bool) []cached {
	var items []cached
	collect := func(i btree.Item) bool {
		items = append(items, i.(cached))
		return true
	}
	switch lo, hi := (cached{key: start}), (cached{key: end}); {
	case start == nil && end == nil:
		c.tree.Ascend(collect)
	case start == nil:
		c.tree.AscendLessThan(hi, collect)
	case end == nil:
		c.tree.AscendGreaterOrEqual(lo, collect)
	default:
		c.tree.AscendRange(lo, hi, collect)
	}
	if !ascending {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// cached is a pending change. A deleted entry hides the parent value.
type cached struct {
	key     []byte
	value   []byte
	deleted bool
}

func (c cached) Less(other btree.Item) bool {
	return bytes.Compare(c.key, other.(cached).key) < 0
}
