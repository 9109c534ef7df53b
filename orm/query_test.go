package orm

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, db.Set([]byte("cnts:a"), []byte("1")))
	assert.Nil(t, db.Set([]byte("cnts:b"), []byte("2")))
	assert.Nil(t, db.Set([]byte("other"), []byte("3")))

	qr := htlc.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	if h == nil {
		t.Fatal("raw query handler not registered")
	}

	res, err := h.Query(db, htlc.KeyQueryMod, []byte("other"))
	assert.Nil(t, err)
	assert.Equal(t, []htlc.Model{htlc.Pair([]byte("other"), []byte("3"))}, res)

	res, err = h.Query(db, htlc.KeyQueryMod, []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, htlc.PrefixQueryMod, []byte("cnts:"))
	assert.Nil(t, err)
	assert.Equal(t, []htlc.Model{
		htlc.Pair([]byte("cnts:a"), []byte("1")),
		htlc.Pair([]byte("cnts:b"), []byte("2")),
	}, res)

	_, err = h.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)
}
