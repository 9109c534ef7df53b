package htlc

import (
	"fmt"

	"github.com/iov-one/htlc/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverOrError builds the DeliverTx response from the handler outcome.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError builds the CheckTx response from the handler outcome.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are reported as errors only.
type DeliverResult struct {
	// Data holds the encoded Instructions once the application
	// processed the result.
	Data []byte
	Log  string
	// Instructions are the outbound value transfers the host must execute
	// once the state changes of this transaction are committed.
	Instructions []Instruction
	// Tags is the attribute trail of this transaction. Tendermint indexes
	// them so that the transaction history can be searched.
	Tags []common.KVPair
}

func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data: d.Data,
		Log:  d.Log,
		Tags: d.Tags,
	}
}

// Attribute returns the value of the first tag with the given key.
func (d DeliverResult) Attribute(key string) (string, bool) {
	for _, t := range d.Tags {
		if string(t.Key) == key {
			return string(t.Value), true
		}
	}
	return "", false
}

// CheckResult is the outcome of a transaction accepted into the mempool.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is reported to tendermint as GasWanted.
	GasAllocated int64
}

func NewCheck(gasAllocated int64, log string) CheckResult {
	return CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverTxError reports err as a failed DeliverTx. Only registered errors
// keep their message unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot deliver tx: %s", log)
	}
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  log,
	}
}

// CheckTxError is DeliverTxError for CheckTx.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = fmt.Sprintf("cannot check tx: %s", log)
	}
	return abci.ResponseCheckTx{
		Code: code,
		Log:  log,
	}
}

// Tag builds a single attribute of a DeliverResult.
func Tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
