package aswap

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

const (
	pathCreate  = "aswap/create"
	pathRelease = "aswap/release"
	pathRefund  = "aswap/refund"
	pathReceive = "aswap/receive"
)

var _ htlc.Msg = (*CreateMsg)(nil)
var _ htlc.Msg = (*ReleaseMsg)(nil)
var _ htlc.Msg = (*RefundMsg)(nil)
var _ htlc.Msg = (*ReceiveMsg)(nil)

// CreateMsg locks the funds attached to the transaction in a new swap.
//
// Hash is the hex encoded sha256 of the preimage (64 characters). The
// recipient is kept in the human readable form it was submitted in and is
// only parsed by the handler.
type CreateMsg struct {
	ID        string      `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
	Hash      string      `protobuf:"bytes,2,opt,name=hash,proto3" json:"hash"`
	Recipient string      `protobuf:"bytes,3,opt,name=recipient,proto3" json:"recipient"`
	Expires   *Expiration `protobuf:"bytes,4,opt,name=expires,proto3" json:"expires"`
}

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

// Path fulfills htlc.Msg interface to allow routing
func (CreateMsg) Path() string {
	return pathCreate
}

// Validate checks the identifier only. The remaining checks need the
// attached funds and the block info, and run in a fixed order in the
// handler.
func (m *CreateMsg) Validate() error {
	if !isValidID(m.ID) {
		return errors.Wrapf(ErrInvalidID, "%d bytes", len(m.ID))
	}
	return nil
}

// ReleaseMsg releases the swap funds to the recipient. Preimage is hex
// encoded (64 characters).
type ReleaseMsg struct {
	ID       string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
	Preimage string `protobuf:"bytes,2,opt,name=preimage,proto3" json:"preimage"`
}

func (m *ReleaseMsg) Reset()         { *m = ReleaseMsg{} }
func (m *ReleaseMsg) String() string { return proto.CompactTextString(m) }
func (*ReleaseMsg) ProtoMessage()    {}

// Path fulfills htlc.Msg interface to allow routing
func (ReleaseMsg) Path() string {
	return pathRelease
}

// Validate does nothing. An unknown identifier is reported as not found
// and the preimage is checked against the stored swap.
func (m *ReleaseMsg) Validate() error {
	return nil
}

// RefundMsg returns the funds of an expired swap to its source.
type RefundMsg struct {
	ID string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
}

func (m *RefundMsg) Reset()         { *m = RefundMsg{} }
func (m *RefundMsg) String() string { return proto.CompactTextString(m) }
func (*RefundMsg) ProtoMessage()    {}

// Path fulfills htlc.Msg interface to allow routing
func (RefundMsg) Path() string {
	return pathRefund
}

// Validate does nothing. An unknown identifier is reported as not found.
func (m *RefundMsg) Validate() error {
	return nil
}

// ReceiveMsg is sent by a token ledger contract after Amount of its tokens
// were transferred to this application by Sender. Msg is a serialized
// CreateMsg describing the swap to create with those tokens.
type ReceiveMsg struct {
	Sender string `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,string"`
	Msg    []byte `protobuf:"bytes,3,opt,name=msg,proto3" json:"msg"`
}

func (m *ReceiveMsg) Reset()         { *m = ReceiveMsg{} }
func (m *ReceiveMsg) String() string { return proto.CompactTextString(m) }
func (*ReceiveMsg) ProtoMessage()    {}

// Path fulfills htlc.Msg interface to allow routing
func (ReceiveMsg) Path() string {
	return pathReceive
}

// Validate requires the embedded create message to be present.
func (m *ReceiveMsg) Validate() error {
	if len(m.Msg) == 0 {
		return errors.Field("Msg", errors.ErrEmpty, "create message required")
	}
	return nil
}

// CreateMsg decodes the embedded create message.
func (m *ReceiveMsg) CreateMsg() (*CreateMsg, error) {
	var msg CreateMsg
	if err := htlc.Unmarshal(m.Msg, &msg); err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	return &msg, nil
}
