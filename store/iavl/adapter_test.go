package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }
	return NewCommitStore(tmpDir, "base"), cleanup
}

func TestIavlStore(t *testing.T) {
	store.RunStoreSuite(t, makeBase)
}

// TestCommitOverwrite checks that we commit properly
// and can add/overwrite/query in the next cache wrap
func TestCommitOverwrite(t *testing.T) {
	commit, cleanup := makeCommitStore()
	defer cleanup()
	// only one to trigger a cleanup
	commit.numHistory = 1

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)
	if len(id.Hash) != 0 {
		t.Fatal("hash is not empty")
	}

	k1, k2, k3 := []byte("first"), []byte("second"), []byte("third")

	parent := commit.CacheWrap()
	assert.Nil(t, parent.Set(k1, []byte("one")))
	assert.Nil(t, parent.Set(k2, []byte("two")))
	assert.Nil(t, parent.Write())
	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("hash is empty")
	}

	child := commit.CacheWrap()
	assert.Nil(t, child.Set(k1, []byte("eleven")))
	assert.Nil(t, child.Delete(k2))
	assert.Nil(t, child.Set(k3, []byte("three")))

	// a parallel cache wrap does not see unwritten changes
	side := commit.CacheWrap()
	got, err := side.Get(k1)
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), got)

	assert.Nil(t, child.Write())

	// committed state is only updated on commit
	got, err = commit.Get(k2)
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), got)

	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id.Version)

	got, err = commit.Get(k1)
	assert.Nil(t, err)
	assert.Equal(t, []byte("eleven"), got)
	got, err = commit.Get(k2)
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestCommitReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-reload-")
	assert.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	commit := NewCommitStore(tmpDir, "reload")
	assert.Nil(t, commit.LoadLatestVersion())
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("swap"), []byte("data")))
	assert.Nil(t, cache.Write())
	want, err := commit.Commit()
	assert.Nil(t, err)

	// The in-memory store keeps nothing between instances.
	mem := MockCommitStore()
	assert.Nil(t, mem.LoadLatestVersion())
	id, err := mem.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	got, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.Hash, got.Hash)
}
