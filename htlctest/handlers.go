package htlctest

import (
	"context"

	"github.com/iov-one/htlc"
)

// Handler is a mock implementation of the htlc.Handler interface.
//
// Each method call is counted. Configured result and error are returned.
type Handler struct {
	checkCall   int
	CheckResult htlc.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult htlc.DeliverResult
	DeliverErr    error
}

var _ htlc.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the given key/value pair to the store on every call
// and returns Err afterwards. It is used to check that failed transactions
// leave no trace.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ htlc.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &htlc.CheckResult{}, nil
}

func (h WriteHandler) Deliver(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &htlc.DeliverResult{}, nil
}
