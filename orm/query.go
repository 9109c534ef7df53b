package orm

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr htlc.Iterator) ([]htlc.Model, error) {
	defer itr.Release()

	var res []htlc.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		} else if err != nil {
			return nil, err
		}
		res = append(res, htlc.Pair(key, value))
	}
}

// RegisterQuery exposes the whole store under the "/" path. Keys are full
// database keys, so any bucket content can be read with a key or prefix query.
func RegisterQuery(qr htlc.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	switch mod {
	case htlc.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if value == nil {
			return nil, nil
		}
		return []htlc.Model{htlc.Pair(data, value)}, nil
	case htlc.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

func queryPrefix(db htlc.ReadOnlyKVStore, prefix []byte) ([]htlc.Model, error) {
	itr, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ConsumeIterator(itr)
}

// prefixEnd returns the smallest key that is greater than all keys with the
// given prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
