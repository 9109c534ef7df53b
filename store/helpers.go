package store

import (
	"github.com/iov-one/htlc/errors"
)

// SliceIterator iterates over models already loaded into memory.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.models) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer of
// MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error      { return nil }
func (EmptyKVStore) Delete([]byte) error        { return nil }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

// Op is a single recorded write. A nil value with del set is a delete.
type Op struct {
	key   []byte
	value []byte
	del   bool
}

// SetOp records writing value under key.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp records removing key.
func DelOp(key []byte) Op {
	return Op{key: key, del: true}
}

// Apply executes the operation against out.
func (o Op) Apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

func (o Op) IsSetOp() bool { return !o.del }
func (o Op) Key() []byte   { return o.key }
func (o Op) Value() []byte { return o.value }

// NonAtomicBatch records writes and replays them in order on Write. A
// failure in the middle leaves the output partially written, so use it only
// in front of in-memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var (
	_ Batch     = (*NonAtomicBatch)(nil)
	_ ShowOpser = (*NonAtomicBatch)(nil)
)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrapf(err, "operation %d", i)
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns the recorded operations that were not written yet.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
