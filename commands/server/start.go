package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/htlc/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startFlags struct {
	bind    string
	debug   bool
	metrics string
}

func parseFlags(args []string) (startFlags, error) {
	var f startFlags
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.StringVar(&f.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	fs.BoolVar(&f.debug, flagDebug, false, "call stack returned on error")
	fs.StringVar(&f.metrics, flagMetrics, "", "address to serve prometheus metrics on, disabled if empty")
	if err := fs.Parse(args); err != nil {
		return f, errors.Wrap(errors.ErrInput, err.Error())
	}
	return f, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags.
// Metrics are registered with the given registerer, which may be nil.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd initializes the application, and runs the abci server until
// a termination signal is received.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	// a nil registerer disables metrics collection
	var reg prometheus.Registerer
	if flags.metrics != "" {
		registry := prometheus.NewRegistry()
		reg = registry
		go serveMetrics(logger.With("module", "metrics"), flags.metrics, registry)
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, flags.debug, reg)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", flags.bind)

	svr, err := server.NewServer(flags.bind, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "cannot create listener: "+err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(errors.ErrState, "cannot start server: "+err.Error())
	}

	// Wait forever
	cmn.TrapSignal(func() {
		// Cleanup
		svr.Stop()
	})
	return nil
}

func serveMetrics(logger log.Logger, addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
