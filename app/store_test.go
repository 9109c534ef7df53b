package app

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
	"github.com/iov-one/htlc/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func newTestStoreApp(t testing.TB) *StoreApp {
	t.Helper()
	qr := htlc.NewQueryRouter()
	qr.RegisterAll(orm.RegisterQuery)
	app := NewStoreApp("test-app", iavl.MockCommitStore(), qr).
		WithInit(dummyInit{})
	app.InitChain(abci.RequestInitChain{
		ChainId:       "store-app-chain",
		AppStateBytes: []byte(`{"dummy": "genesis-value"}`),
	})
	return app
}

func TestStoreAppInitChain(t *testing.T) {
	app := newTestStoreApp(t)
	assert.Equal(t, "store-app-chain", app.GetChainID())

	info, err := app.BlockInfo()
	require.NoError(t, err)
	assert.Equal(t, "store-app-chain", info.ChainID())

	// genesis data is visible only after the first commit
	res := app.Query(abci.RequestQuery{Path: "/", Data: []byte(dummyKey)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var values ResultSet
	require.NoError(t, htlc.Unmarshal(res.Value, &values))
	assert.Len(t, values.Results, 0)

	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	res = app.Query(abci.RequestQuery{Path: "/", Data: []byte(dummyKey)})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, int64(1), res.Height)
	require.NoError(t, htlc.Unmarshal(res.Value, &values))
	assert.Equal(t, [][]byte{[]byte("genesis-value")}, values.Results)

	// a second initialization is refused
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{
			ChainId:       "other-chain",
			AppStateBytes: []byte(`{}`),
		})
	})
}

func TestStoreAppInitChainWithoutState(t *testing.T) {
	app := NewStoreApp("test-app", iavl.MockCommitStore(), htlc.NewQueryRouter())
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "empty-chain"})
	})

	// chain is not initialized, no block can be processed
	_, err := app.BlockInfo()
	assert.True(t, errors.ErrInput.Is(err))
}

func TestStoreAppInfo(t *testing.T) {
	app := newTestStoreApp(t)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, "test-app", info.Data)
	assert.Equal(t, htlc.Version(), info.Version)
	assert.Equal(t, int64(0), info.LastBlockHeight)

	commit := app.Commit()
	info = app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
}

func TestStoreAppQueryErrors(t *testing.T) {
	app := newTestStoreApp(t)

	res := app.Query(abci.RequestQuery{Path: "/no/such/path"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = app.Query(abci.RequestQuery{Path: "/?range"})
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)
}

func TestStoreAppBeginBlock(t *testing.T) {
	app := newTestStoreApp(t)
	app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 12},
	})
	info, err := app.BlockInfo()
	require.NoError(t, err)
	assert.Equal(t, int64(12), info.Height())
	assert.Equal(t, "store-app-chain", info.Header().ChainID)

	res := app.EndBlock(abci.RequestEndBlock{Height: 12})
	assert.Empty(t, res.ValidatorUpdates)
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"no modifier":     {path: "/aswaps", wantPath: "/aswaps", wantMod: ""},
		"prefix modifier": {path: "/aswaps?prefix", wantPath: "/aswaps", wantMod: "prefix"},
		"root":            {path: "/?prefix", wantPath: "/", wantMod: "prefix"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}
