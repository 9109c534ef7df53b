package aswap_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
	"github.com/iov-one/htlc/x/aswap"
)

func TestDetails(t *testing.T) {
	db := store.MemStore()
	r := newRoutes()
	alice, bob := htlctest.RandomAddress(), htlctest.RandomAddress()

	_, err := r.deliver(db, 10, createTx("swap1", hash, alice, bob, aswap.AtHeight(100), ucosm(100)))
	assert.Nil(t, err)

	res, err := aswap.Details(db, "swap1")
	assert.Nil(t, err)
	assert.Equal(t, "swap1", res.ID)
	assert.Equal(t, hash, res.Hash)
	assert.Equal(t, alice.String(), res.Source)
	assert.Equal(t, bob.String(), res.Recipient)
	assert.Equal(t, aswap.AtHeight(100), res.Expires)
	assert.Equal(t, ucosm(100), res.Balance.Native)
	assert.Equal(t, "100 ucosm", res.Balance.Display)
	if res.Balance.LedgerAsset != nil {
		t.Fatal("native swap must not have a ledger asset balance")
	}

	_, err = aswap.Details(db, "unknown")
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestList(t *testing.T) {
	db := store.MemStore()
	r := newRoutes()
	alice, bob := htlctest.RandomAddress(), htlctest.RandomAddress()

	var all []string
	for i := 0; i < 35; i++ {
		id := fmt.Sprintf("swap%02d", i)
		all = append(all, id)
		_, err := r.deliver(db, 10, createTx(id, hash, alice, bob, aswap.AtHeight(100), ucosm(1)))
		assert.Nil(t, err)
	}

	u32 := func(n uint32) *uint32 { return &n }
	str := func(s string) *string { return &s }

	cases := map[string]struct {
		after *string
		limit *uint32
		want  []string
	}{
		"default limit": {
			want: all[:10],
		},
		"explicit limit": {
			limit: u32(3),
			want:  all[:3],
		},
		"limit is capped": {
			limit: u32(100),
			want:  all[:30],
		},
		"after is exclusive": {
			after: str("swap04"),
			limit: u32(2),
			want:  all[5:7],
		},
		"last page": {
			after: str("swap30"),
			limit: u32(30),
			want:  all[31:],
		},
		"nothing left": {
			after: str("swap34"),
			want:  []string{},
		},
		"zero limit": {
			limit: u32(0),
			want:  []string{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := aswap.List(db, tc.after, tc.limit)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, res.Swaps)

			// The same query always returns the same page.
			again, err := aswap.List(db, tc.after, tc.limit)
			assert.Nil(t, err)
			assert.Equal(t, res, again)
		})
	}
}

func TestQueryHandlers(t *testing.T) {
	db := store.MemStore()
	r := newRoutes()
	alice, bob := htlctest.RandomAddress(), htlctest.RandomAddress()
	ledger := htlctest.RandomAddress()

	_, err := r.deliver(db, 10, createTx("native", hash, alice, bob, aswap.AtHeight(100), ucosm(100)))
	assert.Nil(t, err)
	create, err := htlc.Marshal(&aswap.CreateMsg{ID: "tokens", Hash: hash, Recipient: bob.String(), Expires: aswap.AtHeight(100)})
	assert.Nil(t, err)
	_, err = r.deliver(db, 10, &htlctest.Tx{
		Sender: ledger,
		Msg:    &aswap.ReceiveMsg{Sender: alice.String(), Amount: 42, Msg: create},
	})
	assert.Nil(t, err)

	qr := htlc.NewQueryRouter()
	aswap.RegisterQuery(qr)

	models, err := qr.Handler("/aswap/list").Query(db, "", []byte(`{"limit": 1}`))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var list aswap.ListResponse
	assert.Nil(t, json.Unmarshal(models[0].Value, &list))
	assert.Equal(t, []string{"native"}, list.Swaps)

	models, err = qr.Handler("/aswap/list").Query(db, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, `{"swaps":["native","tokens"]}`, string(models[0].Value))

	models, err = qr.Handler("/aswap/details").Query(db, "", []byte("tokens"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var details map[string]interface{}
	assert.Nil(t, json.Unmarshal(models[0].Value, &details))
	balance := details["balance"].(map[string]interface{})
	want := map[string]interface{}{
		"issuer": ledger.String(),
		"amount": "42",
	}
	assert.Equal(t, want, balance["ledger_asset"])
	if _, ok := balance["native"]; ok {
		t.Fatal("token swap must not have a native balance")
	}
	assert.Equal(t, map[string]interface{}{"at_height": float64(100)}, details["expires"])

	_, err = qr.Handler("/aswap/details").Query(db, "", []byte("unknown"))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = qr.Handler("/aswap/list").Query(db, "", []byte("not json"))
	assert.IsErr(t, errors.ErrInput, err)

	models, err = qr.Handler("/aswaps").Query(db, htlc.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(models))
}
