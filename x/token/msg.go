/*
Package token describes the messages understood by an external token ledger
contract. The swap application never keeps token balances itself, it only
builds the transfer requests that the ledger executes.
*/
package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

const pathTransfer = "token/transfer"

// TransferMsg requests the token ledger to move Amount tokens owned by the
// caller to the recipient.
type TransferMsg struct {
	Recipient htlc.Address `protobuf:"bytes,1,opt,name=recipient,proto3" json:"recipient"`
	Amount    uint64       `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,string"`
}

var _ htlc.Msg = (*TransferMsg)(nil)

func (m *TransferMsg) Reset()         { *m = TransferMsg{} }
func (m *TransferMsg) String() string { return proto.CompactTextString(m) }
func (*TransferMsg) ProtoMessage()    {}

// Path fulfills htlc.Msg interface to allow routing
func (TransferMsg) Path() string {
	return pathTransfer
}

// Validate makes sure the transfer can be executed by the ledger.
func (m *TransferMsg) Validate() error {
	if err := m.Recipient.Validate(); err != nil {
		return errors.Field("Recipient", err, "invalid recipient")
	}
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// NewTransfer returns the serialized transfer message, ready to be used as
// the payload of a contract execution.
func NewTransfer(recipient htlc.Address, amount uint64) ([]byte, error) {
	msg := TransferMsg{Recipient: recipient, Amount: amount}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return htlc.Marshal(&msg)
}

// ParseTransfer deserializes and validates a transfer message.
func ParseTransfer(raw []byte) (*TransferMsg, error) {
	var msg TransferMsg
	if err := htlc.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
