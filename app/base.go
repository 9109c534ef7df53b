package app

import (
	"context"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp.
//
// Every transaction is executed on its own cache wrap of the block state.
// The cache is written only when the handler succeeds, so a failed
// transaction leaves neither state changes nor instructions behind.
type BaseApp struct {
	*StoreApp
	decoder htlc.TxDecoder
	handler htlc.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder htlc.TxDecoder,
	handler htlc.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	res, err := b.deliver(txBytes)
	return htlc.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) deliver(txBytes []byte) (*htlc.DeliverResult, error) {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	info, err := b.BlockInfo()
	if err != nil {
		return nil, err
	}
	info = info.WithLogInfo("call", "deliver_tx")

	cache := b.DeliverStore().CacheWrap()
	res, err := b.handler.Deliver(context.Background(), info, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := attachInstructions(res); err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write transaction changes")
	}
	return res, nil
}

// attachInstructions validates the instructions returned by a handler and
// stores their serialized form as the result data, so that the host can
// execute them after commit.
func attachInstructions(res *htlc.DeliverResult) error {
	if len(res.Instructions) == 0 {
		return nil
	}
	for i, in := range res.Instructions {
		if err := in.Validate(); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	raw, err := htlc.EncodeInstructions(res.Instructions)
	if err != nil {
		return err
	}
	res.Data = raw
	return nil
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	res, err := b.check(txBytes)
	return htlc.CheckOrError(res, err, b.debug)
}

func (b BaseApp) check(txBytes []byte) (*htlc.CheckResult, error) {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	info, err := b.BlockInfo()
	if err != nil {
		return nil, err
	}
	info = info.WithLogInfo("call", "check_tx")

	cache := b.CheckStore().CacheWrap()
	res, err := b.handler.Check(context.Background(), info, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write check changes")
	}
	return res, nil
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx htlc.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
