package app

import (
	"context"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ htlc.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Checker) (_ *htlc.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, info, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (_ *htlc.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, info, store, tx)
}
