package htlctest

import (
	"fmt"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
)

// Tx represents a swap application transaction.
// Transaction represents a single message that is to be processed within this
// transaction, on behalf of the sender, with the given funds attached.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg htlc.Msg
	// Sender is returned as the transaction invoker.
	Sender htlc.Address
	// Funds are the native coins attached to the transaction.
	Funds coin.Coins
	// Err if set is returned by the GetMsg method call.
	Err error
}

var _ htlc.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (htlc.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) GetSender() htlc.Address {
	return tx.Sender
}

func (tx *Tx) GetFunds() coin.Coins {
	return tx.Funds
}

func (tx *Tx) Reset() {
	*tx = Tx{}
}

func (tx *Tx) String() string {
	return fmt.Sprintf("Tx{sender: %s, funds: %s, msg: %v}", tx.Sender, tx.Funds, tx.Msg)
}

func (*Tx) ProtoMessage() {}

// Msg represents a message that can be routed but carries no data.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the Validate method call.
	Err error
}

var _ htlc.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Reset() {
	*m = Msg{}
}

func (m *Msg) String() string {
	return "Msg{" + m.RoutePath + "}"
}

func (*Msg) ProtoMessage() {}
