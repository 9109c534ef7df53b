package app

import (
	"context"
	"time"

	"github.com/iov-one/htlc"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ htlc.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, info, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, tx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, info, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(info, tx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(info htlc.BlockInfo, tx htlc.Tx, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := info.Logger().With(
		"path", msgPath(tx),
		"duration", delta/time.Microsecond,
	)
	if err != nil {
		logger = logger.With("err", err)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.
	switch {
	case err != nil:
		logger.Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}

// msgPath returns the path of the message carried by the transaction or
// "unknown" if the message cannot be loaded.
func msgPath(tx htlc.Tx) string {
	if tx == nil {
		return "unknown"
	}
	msg, err := tx.GetMsg()
	if err != nil || msg == nil {
		return "unknown"
	}
	return msg.Path()
}
