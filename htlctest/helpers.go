/*
Package htlctest provides mocks and helpers for testing handlers,
decorators and the application without a running host.
*/
package htlctest

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/iov-one/htlc"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ChainID is used by all block infos created with BlockInfo.
const ChainID = "test-chain"

// BlockInfo returns a block info for the given height and block time.
func BlockInfo(height int64, now time.Time) htlc.BlockInfo {
	header := abci.Header{
		ChainID: ChainID,
		Height:  height,
		Time:    now,
	}
	info, err := htlc.NewBlockInfo(header, ChainID, nil)
	if err != nil {
		panic(err)
	}
	return info
}

// RandomAddress returns a valid address filled with random bytes.
func RandomAddress() htlc.Address {
	addr := make(htlc.Address, htlc.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		panic(err)
	}
	return addr
}

var seq uint64

// SequenceAddress returns a valid address that is unique for the lifetime of
// the process. Addresses are predictable and created in ascending order.
func SequenceAddress() htlc.Address {
	n := atomic.AddUint64(&seq, 1)
	addr := make(htlc.Address, htlc.AddressLength)
	binary.BigEndian.PutUint64(addr[htlc.AddressLength-8:], n)
	return addr
}
