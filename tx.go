package htlc

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc/coin"
)

// Msg is message for the application to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	proto.Message

	// Return the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the checks fails.
	Validate() error
}

// Tx represent the data sent from the user to the application.
// It contains the message and the host provided invocation details.
type Tx interface {
	proto.Message

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)

	// GetSender returns the address that is invoking this transaction.
	// Signature verification must happen before any handler is called.
	GetSender() Address

	// GetFunds returns the native coins attached to this transaction.
	GetFunds() coin.Coins
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}
	if err := assignMsg(msg, destination); err != nil {
		return err
	}
	return msg.Validate()
}
