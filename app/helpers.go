package app

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore, so that
// buckets can be used to read application state from outside.
type ABCIStore struct {
	app abci.Application
}

var _ htlc.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store that reads through the given application
// queries.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	var value ResultSet
	if err := htlc.Unmarshal(query.Value, &value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Iterator attempts to do a range iteration over the store.
// Only listing everything is supported, as the abci query server exposes
// prefix queries only.
func (a *ABCIStore) Iterator(start, end []byte) (htlc.Iterator, error) {
	models, err := a.all(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator works like Iterator but returns the items in descending
// key order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (htlc.Iterator, error) {
	models, err := a.all(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) all(start, end []byte) ([]htlc.Model, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "iterator only implemented for entire range")
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?" + htlc.PrefixQueryMod,
		Data: nil,
	})
	if query.Code != 0 {
		return nil, errors.Wrapf(errors.ErrDatabase, "query code %d: %s", query.Code, query.Log)
	}
	return toModels(query.Key, query.Value)
}

func toModels(keys, values []byte) ([]htlc.Model, error) {
	var k, v ResultSet
	if err := htlc.Unmarshal(keys, &k); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := htlc.Unmarshal(values, &v); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
