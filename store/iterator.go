package store

import (
	"bytes"

	"github.com/iov-one/htlc/errors"
)

// cacheIterator combines a snapshot of the cached items with the iterator of
// the parent store. Cached values shadow the parent ones and deleted items
// hide them.
type cacheIterator struct {
	items []cached
	pos   int

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool

	ascending bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(items []cached, parent Iterator, ascending bool) (*cacheIterator, error) {
	it := &cacheIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

// advanceParent reads the next parent item into the lookahead buffer.
func (i *cacheIterator) advanceParent() error {
	if i.parentDone {
		return nil
	}
	key, value, err := i.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		i.parentDone = true
		i.parentKey, i.parentVal = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	i.parentKey, i.parentVal = key, value
	return nil
}

// Next implements Iterator.
func (i *cacheIterator) Next() (key, value []byte, err error) {
	for {
		if i.pos >= len(i.items) {
			if i.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value := i.parentKey, i.parentVal
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		item := i.items[i.pos]
		if !i.parentDone {
			cmp := bytes.Compare(item.key, i.parentKey)
			if !i.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				// Parent item comes first.
				key, value := i.parentKey, i.parentVal
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
				return key, value, nil
			}
			if cmp == 0 {
				// Cached item shadows the parent one.
				if err := i.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		i.pos++
		if item.deleted {
			continue
		}
		return item.key, item.value, nil
	}
}

// Release implements Iterator.
func (i *cacheIterator) Release() {
	i.parent.Release()
	i.items = nil
	i.parentDone = true
}
