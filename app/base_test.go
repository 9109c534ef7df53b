package app

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// mapDecoder resolves transaction bytes by looking them up in a map.
func mapDecoder(txs map[string]htlc.Tx) htlc.TxDecoder {
	return func(raw []byte) (htlc.Tx, error) {
		tx, ok := txs[string(raw)]
		if !ok {
			return nil, errors.Wrapf(errors.ErrInput, "unknown tx %q", raw)
		}
		return tx, nil
	}
}

func newTestBaseApp(t testing.TB, txs map[string]htlc.Tx, r *Router) BaseApp {
	t.Helper()
	handler := ChainDecorators(NewRecovery()).WithHandler(r)
	base := NewBaseApp(newTestStoreApp(t), mapDecoder(txs), handler, false)
	base.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})
	return base
}

func TestBaseAppWritesOnlySuccessfulTransactions(t *testing.T) {
	r := NewRouter()
	r.Handle("test/ok", htlctest.WriteHandler{Key: []byte("ok"), Value: []byte("1")})
	r.Handle("test/fail", htlctest.WriteHandler{Key: []byte("fail"), Value: []byte("1"), Err: errors.ErrState})

	txs := map[string]htlc.Tx{
		"ok":   &htlctest.Tx{Msg: &htlctest.Msg{RoutePath: "test/ok"}},
		"fail": &htlctest.Tx{Msg: &htlctest.Msg{RoutePath: "test/fail"}},
	}
	base := newTestBaseApp(t, txs, r)

	res := base.DeliverTx([]byte("ok"))
	assert.Equal(t, uint32(0), res.Code, res.Log)
	res = base.DeliverTx([]byte("fail"))
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code)

	v, err := base.DeliverStore().Get([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = base.DeliverStore().Get([]byte("fail"))
	require.NoError(t, err)
	assert.Nil(t, v)

	// check has its own state
	chk := base.CheckTx([]byte("fail"))
	assert.Equal(t, errors.ErrState.ABCICode(), chk.Code)
	has, err := base.CheckStore().Has([]byte("fail"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBaseAppDecodeErrors(t *testing.T) {
	base := newTestBaseApp(t, nil, NewRouter())

	res := base.DeliverTx([]byte("unknown"))
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	chk := base.CheckTx([]byte("unknown"))
	assert.Equal(t, errors.ErrInput.ABCICode(), chk.Code)

	panicking := NewBaseApp(base.StoreApp, func([]byte) (htlc.Tx, error) {
		panic("cannot decode")
	}, NewRouter(), false)
	res = panicking.DeliverTx([]byte("any"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), res.Code)
}

func TestBaseAppEncodesInstructions(t *testing.T) {
	dest := htlctest.SequenceAddress()
	send := &htlc.BankSend{
		ToAddress: dest,
		Amount:    coin.Coins{coin.NewCoinp(100, "ucosm")},
	}

	r := NewRouter()
	r.Handle("test/send", &htlctest.Handler{
		DeliverResult: htlc.DeliverResult{
			Instructions: []htlc.Instruction{send},
			Tags:         []common.KVPair{htlc.Tag("action", "send")},
		},
	})
	r.Handle("test/broken", &htlctest.Handler{
		DeliverResult: htlc.DeliverResult{
			Instructions: []htlc.Instruction{&htlc.BankSend{Amount: send.Amount}},
		},
	})
	txs := map[string]htlc.Tx{
		"send":   &htlctest.Tx{Msg: &htlctest.Msg{RoutePath: "test/send"}},
		"broken": &htlctest.Tx{Msg: &htlctest.Msg{RoutePath: "test/broken"}},
	}
	base := newTestBaseApp(t, txs, r)

	res := base.DeliverTx([]byte("send"))
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, []common.KVPair{htlc.Tag("action", "send")}, res.Tags)

	ins, err := htlc.DecodeInstructions(res.Data)
	require.NoError(t, err)
	require.Len(t, ins, 1)
	got, ok := ins[0].(*htlc.BankSend)
	require.True(t, ok)
	assert.Equal(t, dest, got.ToAddress)
	assert.Equal(t, send.Amount, got.Amount)

	res = base.DeliverTx([]byte("broken"))
	assert.NotEqual(t, uint32(0), res.Code)
}
