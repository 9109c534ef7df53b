package aswap

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

const (
	// pay swap cost up-front
	createSwapCost  int64 = 300
	releaseSwapCost int64 = 0
	refundSwapCost  int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r htlc.Registry) {
	bucket := NewBucket()
	r.Handle(pathCreate, CreateSwapHandler{bucket: bucket})
	r.Handle(pathRelease, ReleaseSwapHandler{bucket: bucket})
	r.Handle(pathRefund, RefundSwapHandler{bucket: bucket})
	r.Handle(pathReceive, ReceiveHandler{bucket: bucket})
}

//---- create

// CreateSwapHandler creates a swap holding the native coins attached to
// the transaction. The transaction sender becomes the swap source.
type CreateSwapHandler struct {
	bucket Bucket
}

var _ htlc.Handler = CreateSwapHandler{}

// Check does the validation and sets the cost of the transaction
func (h CreateSwapHandler) Check(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	msg, _, err := h.validate(info, db, tx)
	if err != nil {
		return nil, err
	}
	if err := checkAvailable(h.bucket, db, msg.ID); err != nil {
		return nil, err
	}
	res := htlc.NewCheck(createSwapCost, "")
	return &res, nil
}

// Deliver stores the swap if all conditions are met.
func (h CreateSwapHandler) Deliver(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, swap, err := h.validate(info, db, tx)
	if err != nil {
		return nil, err
	}
	return storeSwap(h.bucket, db, msg, swap)
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateSwapHandler) validate(info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*CreateMsg, *Swap, error) {
	var msg CreateMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	swap, err := newSwap(info, &msg, NativeBalance(tx.GetFunds()), tx.GetSender())
	if err != nil {
		return nil, nil, err
	}
	return &msg, swap, nil
}

// newSwap runs all creation checks in order and returns the swap to store.
// The identifier is checked first, the uniqueness of the identifier last
// when the swap is inserted.
func newSwap(info htlc.BlockInfo, msg *CreateMsg, balance Balance, depositor htlc.Address) (*Swap, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if balance.IsEmpty() {
		return nil, errors.Wrap(ErrEmptyBalance, "empty balance")
	}
	hash, err := parseHex32(msg.Hash)
	if err != nil {
		return nil, errors.Wrap(err, "hash")
	}
	if err := msg.Expires.Validate(); err != nil {
		return nil, errors.Wrap(err, "expires")
	}
	if msg.Expires.IsExpired(info) {
		return nil, errors.Wrapf(errors.ErrExpired, "expired atomic swap: %s", msg.Expires)
	}
	recipient, err := htlc.ParseAddress(msg.Recipient)
	if err != nil {
		return nil, errors.Wrap(err, "recipient")
	}
	if recipient.Equals(depositor) {
		return nil, errors.Wrapf(ErrSameSenderRecipient, "%s", recipient)
	}

	swap := &Swap{
		Hash:      hash,
		Source:    depositor,
		Recipient: recipient,
		Expires:   msg.Expires,
	}
	if err := swap.setBalance(balance); err != nil {
		return nil, err
	}
	if err := swap.Validate(); err != nil {
		return nil, errors.Wrap(err, "swap")
	}
	return swap, nil
}

// checkAvailable returns ErrDuplicate if a live swap uses the identifier.
func checkAvailable(bucket Bucket, db htlc.ReadOnlyKVStore, id string) error {
	switch has, err := bucket.Has(db, []byte(id)); {
	case err != nil:
		return err
	case has:
		return errors.Wrap(errors.ErrDuplicate, "atomic swap already exists")
	}
	return nil
}

// storeSwap inserts the swap and returns the creation attribute trail.
func storeSwap(bucket Bucket, db htlc.KVStore, msg *CreateMsg, swap *Swap) (*htlc.DeliverResult, error) {
	if err := bucket.Create(db, msg.ID, swap); err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{
		Data: []byte(msg.ID),
		Tags: createTags(msg),
	}, nil
}

//---- receive

// ReceiveHandler creates a swap holding tokens of the calling token ledger
// contract. The depositor is the sender declared in the notification.
type ReceiveHandler struct {
	bucket Bucket
}

var _ htlc.Handler = ReceiveHandler{}

// Check does the validation and sets the cost of the transaction
func (h ReceiveHandler) Check(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	msg, _, err := h.validate(info, db, tx)
	if err != nil {
		return nil, err
	}
	if err := checkAvailable(h.bucket, db, msg.ID); err != nil {
		return nil, err
	}
	res := htlc.NewCheck(createSwapCost, "")
	return &res, nil
}

// Deliver stores the swap if all conditions are met.
func (h ReceiveHandler) Deliver(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, swap, err := h.validate(info, db, tx)
	if err != nil {
		return nil, err
	}
	return storeSwap(h.bucket, db, msg, swap)
}

// validate does all common pre-processing between Check and Deliver.
func (h ReceiveHandler) validate(info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*CreateMsg, *Swap, error) {
	var msg ReceiveMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	create, err := msg.CreateMsg()
	if err != nil {
		return nil, nil, err
	}
	depositor, err := htlc.ParseAddress(msg.Sender)
	if err != nil {
		return nil, nil, errors.Wrap(err, "sender")
	}
	balance := &TokenBalance{
		Contract: tx.GetSender(),
		Amount:   msg.Amount,
	}
	swap, err := newSwap(info, create, balance, depositor)
	if err != nil {
		return nil, nil, err
	}
	return create, swap, nil
}

//---- release

// ReleaseSwapHandler releases the swap funds to the recipient. Anyone
// knowing the preimage can release a swap.
type ReleaseSwapHandler struct {
	bucket Bucket
}

var _ htlc.Handler = ReleaseSwapHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h ReleaseSwapHandler) Check(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, _, err := h.validate(info, db, tx); err != nil {
		return nil, err
	}
	res := htlc.NewCheck(releaseSwapCost, "")
	return &res, nil
}

// Deliver deletes the swap and returns the instructions transferring its
// balance to the recipient.
func (h ReleaseSwapHandler) Deliver(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, swap, err := h.validate(info, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Remove(db, msg.ID); err != nil {
		return nil, err
	}
	instructions, err := swap.Balance().TransferTo(swap.Recipient)
	if err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{
		Instructions: instructions,
		Tags:         releaseTags(msg, swap.Recipient),
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ReleaseSwapHandler) validate(info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*ReleaseMsg, *Swap, error) {
	var msg ReleaseMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	swap, err := h.bucket.Load(db, msg.ID)
	if err != nil {
		return nil, nil, err
	}
	if swap.Expires.IsExpired(info) {
		return nil, nil, errors.Wrapf(errors.ErrExpired, "expired atomic swap: %s", swap.Expires)
	}
	preimage, err := parseHex32(msg.Preimage)
	if err != nil {
		return nil, nil, errors.Wrap(err, "preimage")
	}
	if !bytes.Equal(HashBytes(preimage), swap.Hash) {
		return nil, nil, errors.Wrap(ErrInvalidPreimage, "hash mismatch")
	}
	return &msg, swap, nil
}

//---- refund

// RefundSwapHandler returns the funds of an expired swap to its source.
// Anyone can refund an expired swap.
type RefundSwapHandler struct {
	bucket Bucket
}

var _ htlc.Handler = RefundSwapHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h RefundSwapHandler) Check(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, _, err := h.validate(info, db, tx); err != nil {
		return nil, err
	}
	res := htlc.NewCheck(refundSwapCost, "")
	return &res, nil
}

// Deliver deletes the swap and returns the instructions transferring its
// balance back to the source.
func (h RefundSwapHandler) Deliver(ctx context.Context, info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, swap, err := h.validate(info, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Remove(db, msg.ID); err != nil {
		return nil, err
	}
	instructions, err := swap.Balance().TransferTo(swap.Source)
	if err != nil {
		return nil, err
	}
	return &htlc.DeliverResult{
		Instructions: instructions,
		Tags:         refundTags(msg, swap.Source),
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundSwapHandler) validate(info htlc.BlockInfo, db htlc.KVStore, tx htlc.Tx) (*RefundMsg, *Swap, error) {
	var msg RefundMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	swap, err := h.bucket.Load(db, msg.ID)
	if err != nil {
		return nil, nil, err
	}
	if !swap.Expires.IsExpired(info) {
		return nil, nil, errors.Wrapf(ErrNotExpired, "expires at %s", swap.Expires)
	}
	return &msg, swap, nil
}

// HashBytes returns the sha256 digest of the preimage.
func HashBytes(preimage []byte) []byte {
	hash := sha256.Sum256(preimage)
	return hash[:]
}

// parseHex32 decodes a hex string that must hold exactly 32 bytes.
func parseHex32(data string) ([]byte, error) {
	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	if len(raw) != hashSize {
		return nil, errors.Wrapf(ErrInvalidHash, "%d chars, must be 64 characters", len(raw)*2)
	}
	return raw, nil
}
