package aswap

import (
	"fmt"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/token"
)

// Balance is the value locked in a swap. It is implemented by NativeBalance
// and TokenBalance only.
type Balance interface {
	// IsEmpty returns true if the balance carries no value.
	IsEmpty() bool
	// TransferTo returns the instructions moving the whole balance to
	// the destination. An empty balance produces no instructions.
	TransferTo(dest htlc.Address) ([]htlc.Instruction, error)
	// String returns a human readable representation.
	String() string

	isBalance()
}

// NativeBalance is a list of native coins attached to the create
// transaction.
type NativeBalance coin.Coins

var _ Balance = NativeBalance(nil)

func (NativeBalance) isBalance() {}

// IsEmpty returns true if there are no coins or all of them are zero.
func (b NativeBalance) IsEmpty() bool {
	return coin.Coins(b).IsEmpty()
}

// TransferTo sends all coins to the destination with a single instruction.
func (b NativeBalance) TransferTo(dest htlc.Address) ([]htlc.Instruction, error) {
	if b.IsEmpty() {
		return nil, nil
	}
	amount, err := coin.NormalizeCoins(coin.Coins(b))
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	return []htlc.Instruction{
		&htlc.BankSend{ToAddress: dest, Amount: amount},
	}, nil
}

func (b NativeBalance) String() string {
	return coin.Coins(b).String()
}

// TokenBalance is an amount held on an external token ledger contract.
type TokenBalance struct {
	Contract htlc.Address `protobuf:"bytes,1,opt,name=contract,proto3" json:"contract"`
	Amount   uint64       `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,string"`
}

var _ Balance = (*TokenBalance)(nil)

func (*TokenBalance) isBalance()    {}
func (m *TokenBalance) Reset()      { *m = TokenBalance{} }
func (*TokenBalance) ProtoMessage() {}

// IsEmpty returns true if no tokens are held.
func (m *TokenBalance) IsEmpty() bool {
	return m == nil || m.Amount == 0
}

// TransferTo asks the token ledger contract to transfer the amount to the
// destination.
func (m *TokenBalance) TransferTo(dest htlc.Address) ([]htlc.Instruction, error) {
	if m.IsEmpty() {
		return nil, nil
	}
	msg, err := token.NewTransfer(dest, m.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "token transfer")
	}
	return []htlc.Instruction{
		&htlc.ContractExecute{Contract: m.Contract, Msg: msg},
	}, nil
}

func (m *TokenBalance) String() string {
	if m == nil {
		return "0"
	}
	return fmt.Sprintf("%d %s", m.Amount, m.Contract)
}

// Validate ensures the token contract is known.
func (m *TokenBalance) Validate() error {
	if err := m.Contract.Validate(); err != nil {
		return errors.Field("Contract", err, "invalid token contract")
	}
	return nil
}
