/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Objects are serialized with protobuf and validated before every write.
* Keys are kept in ascending lexicographic order, which allows paginated
  listing.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB that holds models of a single
// type.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

var _ Reader = Bucket{}
var _ htlc.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of the bucket, used as the key prefix.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Insert writes a new model under the given key. It fails with
// ErrDuplicate if the key is already taken, nothing is overwritten.
func (b Bucket) Insert(db htlc.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	dbkey := b.DBKey(key)
	switch has, err := db.Has(dbkey); {
	case err != nil:
		return errors.Wrap(err, "cannot check existence")
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "%s %q", b.name, key)
	}
	raw, err := htlc.Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(dbkey, raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// One loads the model stored under the given key into dest. It returns
// ErrNotFound if there is no such key.
func (b Bucket) One(db htlc.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %q", b.name, key)
	}
	return htlc.Unmarshal(raw, dest)
}

// Has returns true if a model is stored under the given key.
func (b Bucket) Has(db htlc.ReadOnlyKVStore, key []byte) (bool, error) {
	has, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return has, nil
}

// Delete removes the value at a key. It returns ErrNotFound if there was
// nothing to delete.
func (b Bucket) Delete(db htlc.KVStore, key []byte) error {
	dbkey := b.DBKey(key)
	switch has, err := db.Has(dbkey); {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case !has:
		return errors.Wrapf(errors.ErrNotFound, "%s %q", b.name, key)
	}
	if err := db.Delete(dbkey); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Keys returns up to limit keys of this bucket in ascending order. Only
// keys strictly greater than after are returned. A nil after starts at
// the first key.
func (b Bucket) Keys(db htlc.ReadOnlyKVStore, after []byte, limit int) ([][]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	start := b.prefix
	if after != nil {
		// The smallest key that is greater than after.
		start = append(b.DBKey(after), 0)
	}
	iter, err := db.Iterator(start, prefixEnd(b.prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer iter.Release()

	var keys [][]byte
	for len(keys) < limit {
		key, _, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		} else if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		keys = append(keys, b.stripPrefix(key))
	}
	return keys, nil
}

func (b Bucket) stripPrefix(dbkey []byte) []byte {
	key := make([]byte, len(dbkey)-len(b.prefix))
	copy(key, dbkey[len(b.prefix):])
	return key
}

// Register registers this Bucket for raw queries under the given path
// name. The bucket name is used when name is empty.
func (b Bucket) Register(name string, r htlc.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter. Returned keys include the
// bucket prefix.
func (b Bucket) Query(db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	switch mod {
	case htlc.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []htlc.Model{htlc.Pair(key, value)}, nil
	case htlc.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
