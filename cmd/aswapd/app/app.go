/*
Package app links together all the various components
to construct the aswapd application.
*/
package app

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/app"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
	"github.com/iov-one/htlc/store/iavl"
	"github.com/iov-one/htlc/x/aswap"
	"github.com/prometheus/client_golang/prometheus"
)

// Chain returns a chain of decorators, to handle logging, recovery,
// metrics and authentication.
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
		app.NewMetrics(reg),
		NewSignatureDecorator(),
	)
}

// Router returns a default router, dispatching to the swap handlers.
func Router() *app.Router {
	r := app.NewRouter()
	aswap.RegisterRoutes(r)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/aswaps", "/aswap/details", "/aswap/list",
// "/aswap/version", "/conf" and "/"
func QueryRouter() htlc.QueryRouter {
	r := htlc.NewQueryRouter()
	r.RegisterAll(
		aswap.RegisterQuery,
		RegisterConfQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) htlc.Handler {
	return Chain(reg).WithHandler(Router())
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h htlc.Handler, tx htlc.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter())

	// restore the configuration stored at genesis, if any
	if err := LoadConf(store.DeliverStore()); err != nil {
		return app.BaseApp{}, err
	}

	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// Initializers returns the genesis initializers of the application. The
// configuration is applied first, as swap addresses depend on it.
func Initializers() htlc.Initializer {
	return app.ChainInitializers(
		&ConfInitializer{},
		&aswap.Initializer{},
	)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (htlc.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
