package htlc

import (
	"context"
	"encoding/json"
)

// Handler processes the messages routed to it, for example all swap
// messages. Check is run for the mempool and must not have side effects
// beyond the given store. Deliver executes the transaction in a block.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a handler. Signature verification, recovery,
// logging and metrics are decorators.
type Decorator interface {
	Check(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx context.Context, info BlockInfo, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state of the genesis file, split by extension name.
type Options map[string]json.RawMessage

// ReadOptions decodes the section stored under key into obj. A missing
// section leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, obj)
}

// Initializer loads the state of an extension from the genesis file.
type Initializer interface {
	FromGenesis(opts Options, db KVStore) error
}
