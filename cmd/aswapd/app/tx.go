package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/aswap"
)

// Tx is the transaction envelope accepted by the node. It carries exactly
// one message, the native coins sent along and the signature of the sender.
type Tx struct {
	Sender    *crypto.PublicKey `protobuf:"bytes,1,opt,name=sender,proto3" json:"sender"`
	Signature []byte            `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature"`
	Funds     coin.Coins        `protobuf:"bytes,3,rep,name=funds,proto3" json:"funds"`

	CreateMsg  *aswap.CreateMsg  `protobuf:"bytes,10,opt,name=create_msg,json=createMsg,proto3" json:"create_msg,omitempty"`
	ReleaseMsg *aswap.ReleaseMsg `protobuf:"bytes,11,opt,name=release_msg,json=releaseMsg,proto3" json:"release_msg,omitempty"`
	RefundMsg  *aswap.RefundMsg  `protobuf:"bytes,12,opt,name=refund_msg,json=refundMsg,proto3" json:"refund_msg,omitempty"`
	ReceiveMsg *aswap.ReceiveMsg `protobuf:"bytes,13,opt,name=receive_msg,json=receiveMsg,proto3" json:"receive_msg,omitempty"`
}

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return proto.CompactTextString(tx) }
func (*Tx) ProtoMessage()     {}

// make sure tx fulfills all interfaces
var _ htlc.Tx = (*Tx)(nil)
var _ SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (htlc.Tx, error) {
	tx := new(Tx)
	if err := htlc.Unmarshal(bz, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx wraps the given message into a transaction envelope.
func NewTx(msg htlc.Msg, funds coin.Coins) (*Tx, error) {
	tx := &Tx{Funds: funds}
	switch m := msg.(type) {
	case *aswap.CreateMsg:
		tx.CreateMsg = m
	case *aswap.ReleaseMsg:
		tx.ReleaseMsg = m
	case *aswap.RefundMsg:
		tx.RefundMsg = m
	case *aswap.ReceiveMsg:
		tx.ReceiveMsg = m
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return tx, nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (htlc.Msg, error) {
	var msgs []htlc.Msg
	if tx.CreateMsg != nil {
		msgs = append(msgs, tx.CreateMsg)
	}
	if tx.ReleaseMsg != nil {
		msgs = append(msgs, tx.ReleaseMsg)
	}
	if tx.RefundMsg != nil {
		msgs = append(msgs, tx.RefundMsg)
	}
	if tx.ReceiveMsg != nil {
		msgs = append(msgs, tx.ReceiveMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrEmpty, "transaction message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "transaction must carry one message, got %d", len(msgs))
	}
}

// GetSender returns the address of the signing key. Signature verification
// is done by the SignatureDecorator before any handler is called.
func (tx *Tx) GetSender() htlc.Address {
	if tx.Sender == nil {
		return nil
	}
	return tx.Sender.Address()
}

// GetFunds returns the native coins attached to this transaction.
func (tx *Tx) GetFunds() coin.Coins {
	return tx.Funds
}

// GetSignBytes returns the serialized transaction without the signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signature, as the sign bytes
	// should only come from the data itself
	sig := tx.Signature
	tx.Signature = nil
	bz, err := htlc.Marshal(tx)
	tx.Signature = sig
	return bz, err
}

// GetSigner returns the public key the transaction claims to be signed with.
func (tx *Tx) GetSigner() (*crypto.PublicKey, []byte) {
	return tx.Sender, tx.Signature
}
