package store

import (
	"fmt"
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
)

// TestStoreConstructor returns a fresh, empty store and a function that
// releases its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// RunStoreSuite checks the behaviour every CacheableKVStore must provide:
// reads through cache layers, staging of writes until Write, dropping them
// on Discard, and ordered iteration over the merged view. Each check runs
// as a subtest on a new store.
func RunStoreSuite(t *testing.T, makeBase TestStoreConstructor) {
	checks := map[string]func(*testing.T, CacheableKVStore){
		"get and set":        checkGetSet,
		"staged writes":      checkStagedWrites,
		"discarded writes":   checkDiscard,
		"nested caches":      checkNestedCaches,
		"merged iteration":   checkMergedIteration,
		"iteration bounds":   checkIterationBounds,
		"many keys":          checkManyKeys,
		"delete missing key": checkDeleteMissing,
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			base, cleanup := makeBase()
			defer cleanup()
			check(t, base)
		})
	}
}

func checkGetSet(t *testing.T, db CacheableKVStore) {
	key := []byte("aswap:swap1")
	assertValue(t, db, key, nil)

	assert.Nil(t, db.Set(key, []byte("locked")))
	assertValue(t, db, key, []byte("locked"))

	assert.Nil(t, db.Set(key, []byte("overwritten")))
	assertValue(t, db, key, []byte("overwritten"))

	assert.Nil(t, db.Delete(key))
	assertValue(t, db, key, nil)
}

func checkStagedWrites(t *testing.T, db CacheableKVStore) {
	applyOps(t, db, SetOp([]byte("a"), []byte("1")), SetOp([]byte("b"), []byte("2")))

	cache := db.CacheWrap()
	applyOps(t, cache,
		SetOp([]byte("a"), []byte("11")),
		DelOp([]byte("b")),
		SetOp([]byte("c"), []byte("3")),
	)

	// nothing is visible below the cache before Write
	assertValue(t, db, []byte("a"), []byte("1"))
	assertValue(t, db, []byte("b"), []byte("2"))
	assertValue(t, db, []byte("c"), nil)

	assertValue(t, cache, []byte("a"), []byte("11"))
	assertValue(t, cache, []byte("b"), nil)
	assertValue(t, cache, []byte("c"), []byte("3"))

	assert.Nil(t, cache.Write())
	assertValue(t, db, []byte("a"), []byte("11"))
	assertValue(t, db, []byte("b"), nil)
	assertValue(t, db, []byte("c"), []byte("3"))
}

func checkDiscard(t *testing.T, db CacheableKVStore) {
	applyOps(t, db, SetOp([]byte("kept"), []byte("yes")))

	cache := db.CacheWrap()
	applyOps(t, cache, SetOp([]byte("dropped"), []byte("yes")), DelOp([]byte("kept")))
	cache.Discard()

	assertValue(t, db, []byte("kept"), []byte("yes"))
	assertValue(t, db, []byte("dropped"), nil)
}

func checkNestedCaches(t *testing.T, db CacheableKVStore) {
	outer := db.CacheWrap()
	applyOps(t, outer, SetOp([]byte("outer"), []byte("1")))

	inner := outer.CacheWrap()
	applyOps(t, inner, SetOp([]byte("inner"), []byte("2")), DelOp([]byte("outer")))
	assertValue(t, outer, []byte("outer"), []byte("1"))
	assertValue(t, outer, []byte("inner"), nil)

	assert.Nil(t, inner.Write())
	assertValue(t, outer, []byte("outer"), nil)
	assertValue(t, outer, []byte("inner"), []byte("2"))
	assertValue(t, db, []byte("inner"), nil)

	assert.Nil(t, outer.Write())
	assertValue(t, db, []byte("inner"), []byte("2"))
}

func checkMergedIteration(t *testing.T, db CacheableKVStore) {
	applyOps(t, db,
		SetOp([]byte("k1"), []byte("base")),
		SetOp([]byte("k3"), []byte("base")),
		SetOp([]byte("k5"), []byte("base")),
	)
	cache := db.CacheWrap()
	applyOps(t, cache,
		SetOp([]byte("k2"), []byte("cache")),
		SetOp([]byte("k3"), []byte("cache")),
		DelOp([]byte("k5")),
		SetOp([]byte("k6"), []byte("cache")),
	)

	want := []Model{
		Pair([]byte("k1"), []byte("base")),
		Pair([]byte("k2"), []byte("cache")),
		Pair([]byte("k3"), []byte("cache")),
		Pair([]byte("k6"), []byte("cache")),
	}
	it, err := cache.Iterator(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, want, consume(t, it))

	it, err = cache.ReverseIterator(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, reversed(want), consume(t, it))

	// the base is not affected by the cache
	it, err = db.Iterator(nil, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(consume(t, it)))
}

func checkIterationBounds(t *testing.T, db CacheableKVStore) {
	for _, k := range []string{"a", "b", "c", "d"} {
		assert.Nil(t, db.Set([]byte(k), []byte(k)))
	}
	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("bb"), []byte("bb")))

	// start is inclusive, end is exclusive
	it, err := cache.Iterator([]byte("b"), []byte("d"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"b", "bb", "c"}, keys(consume(t, it)))

	it, err = cache.ReverseIterator([]byte("b"), []byte("d"))
	assert.Nil(t, err)
	assert.Equal(t, []string{"c", "bb", "b"}, keys(consume(t, it)))

	it, err = cache.Iterator([]byte("x"), nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(consume(t, it)))
}

func checkManyKeys(t *testing.T, db CacheableKVStore) {
	const total = 60
	for i := 0; i < total; i += 2 {
		assert.Nil(t, db.Set(numKey(i), []byte("base")))
	}
	cache := db.CacheWrap()
	for i := 1; i < total; i += 2 {
		assert.Nil(t, cache.Set(numKey(i), []byte("cache")))
	}
	for i := 0; i < total; i += 10 {
		assert.Nil(t, cache.Delete(numKey(i)))
	}

	it, err := cache.Iterator(nil, nil)
	assert.Nil(t, err)
	got := keys(consume(t, it))
	assert.Equal(t, total-total/10, len(got))
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1] < got[i], "keys must be ascending")
	}
}

func checkDeleteMissing(t *testing.T, db CacheableKVStore) {
	cache := db.CacheWrap()
	assert.Nil(t, cache.Delete([]byte("never-set")))
	assert.Nil(t, cache.Write())
	assertValue(t, db, []byte("never-set"), nil)
}

func numKey(i int) []byte {
	return []byte(fmt.Sprintf("aswap:%04d", i))
}

func applyOps(t testing.TB, db SetDeleter, ops ...Op) {
	t.Helper()
	for _, op := range ops {
		assert.Nil(t, op.Apply(db))
	}
}

func assertValue(t testing.TB, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := db.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	has, err := db.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

func consume(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()
	var res []Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		assert.Nil(t, err)
		res = append(res, Pair(k, v))
	}
}

func keys(models []Model) []string {
	res := make([]string, len(models))
	for i, m := range models {
		res[i] = string(m.Key)
	}
	return res
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
