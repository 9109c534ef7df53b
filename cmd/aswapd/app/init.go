package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/htlc"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions will produce the basic options for a chain without any
// preloaded swaps, to use for dev mode.
//
// The first argument, if given, sets the address prefix.
func GenInitOptions(args []string) (json.RawMessage, error) {
	prefix := htlc.AddressPrefix
	if len(args) > 0 {
		prefix = args[0]
	}
	var conf Conf
	conf.HTLC.AddressPrefix = prefix
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid address prefix %q: %s", prefix, err)
	}

	opts := fmt.Sprintf(`
          {
            "conf": {
              "htlc": {
                "address_prefix": %q
              }
            },
            "aswap": []
          }
	`, prefix)
	return []byte(opts), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return GenerateAppWithMetrics(home, logger, debug, nil)
}

// GenerateAppWithMetrics creates the application and registers the
// transaction metrics with reg. A nil registry disables the registration.
func GenerateAppWithMetrics(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "aswap.db")
	}

	stack := Stack(reg)
	application, err := Application("aswapd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}
