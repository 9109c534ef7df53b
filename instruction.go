package htlc

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
)

// Instruction is an outbound value transfer request returned by a handler.
// Handlers never move value themselves. The host executes all instructions
// after the state changes of the transaction are committed.
//
// Instruction is implemented by BankSend and ContractExecute only.
type Instruction interface {
	Validate() error
	isInstruction()
}

// BankSend requests a transfer of native coins held by the application to
// the given address.
type BankSend struct {
	ToAddress Address    `protobuf:"bytes,1,opt,name=to_address,json=toAddress,proto3" json:"to_address"`
	Amount    coin.Coins `protobuf:"bytes,2,rep,name=amount,proto3" json:"amount"`
}

var _ Instruction = (*BankSend)(nil)

func (*BankSend) isInstruction() {}
func (m *BankSend) Reset()      { *m = BankSend{} }
func (m *BankSend) String() string {
	return proto.CompactTextString(m)
}
func (*BankSend) ProtoMessage() {}

// Validate returns an error if this instruction cannot be executed.
func (m *BankSend) Validate() error {
	if err := m.ToAddress.Validate(); err != nil {
		return errors.Field("ToAddress", err, "invalid destination")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "invalid amount")
	}
	return nil
}

// ContractExecute requests the execution of a message by another contract,
// for example the transfer method of a token ledger.
type ContractExecute struct {
	Contract Address    `protobuf:"bytes,1,opt,name=contract,proto3" json:"contract"`
	Msg      []byte     `protobuf:"bytes,2,opt,name=msg,proto3" json:"msg"`
	Funds    coin.Coins `protobuf:"bytes,3,rep,name=funds,proto3" json:"funds"`
}

var _ Instruction = (*ContractExecute)(nil)

func (*ContractExecute) isInstruction() {}
func (m *ContractExecute) Reset()      { *m = ContractExecute{} }
func (m *ContractExecute) String() string {
	return proto.CompactTextString(m)
}
func (*ContractExecute) ProtoMessage() {}

// Validate returns an error if this instruction cannot be executed.
func (m *ContractExecute) Validate() error {
	if err := m.Contract.Validate(); err != nil {
		return errors.Field("Contract", err, "invalid contract")
	}
	if len(m.Msg) == 0 {
		return errors.Field("Msg", errors.ErrEmpty, "message required")
	}
	if len(m.Funds) != 0 {
		if err := m.Funds.Validate(); err != nil {
			return errors.Field("Funds", err, "invalid funds")
		}
	}
	return nil
}

// instructionSet is the wire representation of a list of instructions.
type instructionSet struct {
	Instructions []*instructionEntry `protobuf:"bytes,1,rep,name=instructions,proto3"`
}

func (m *instructionSet) Reset()         { *m = instructionSet{} }
func (m *instructionSet) String() string { return proto.CompactTextString(m) }
func (*instructionSet) ProtoMessage()    {}

// instructionEntry holds exactly one of the instruction kinds.
type instructionEntry struct {
	Send    *BankSend        `protobuf:"bytes,1,opt,name=send,proto3"`
	Execute *ContractExecute `protobuf:"bytes,2,opt,name=execute,proto3"`
}

func (m *instructionEntry) Reset()         { *m = instructionEntry{} }
func (m *instructionEntry) String() string { return proto.CompactTextString(m) }
func (*instructionEntry) ProtoMessage()    {}

// EncodeInstructions serializes a list of instructions so that it can be
// returned to the host as the transaction result data.
func EncodeInstructions(ins []Instruction) ([]byte, error) {
	set := instructionSet{
		Instructions: make([]*instructionEntry, 0, len(ins)),
	}
	for i, in := range ins {
		switch in := in.(type) {
		case *BankSend:
			set.Instructions = append(set.Instructions, &instructionEntry{Send: in})
		case *ContractExecute:
			set.Instructions = append(set.Instructions, &instructionEntry{Execute: in})
		default:
			return nil, errors.Wrapf(errors.ErrType, "instruction %d: %T", i, in)
		}
	}
	return Marshal(&set)
}

// DecodeInstructions is the inverse of EncodeInstructions.
func DecodeInstructions(raw []byte) ([]Instruction, error) {
	var set instructionSet
	if err := Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	res := make([]Instruction, 0, len(set.Instructions))
	for i, e := range set.Instructions {
		switch {
		case e.Send != nil && e.Execute == nil:
			res = append(res, e.Send)
		case e.Execute != nil && e.Send == nil:
			res = append(res, e.Execute)
		default:
			return nil, errors.Wrapf(errors.ErrState, "instruction %d must have exactly one kind", i)
		}
	}
	return res, nil
}
