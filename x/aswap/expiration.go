package aswap

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Expiration is the deadline of a swap. Exactly one of the thresholds is
// set: a block height or a block time in seconds.
type Expiration struct {
	AtHeight uint64        `protobuf:"varint,1,opt,name=at_height,json=atHeight,proto3" json:"at_height,omitempty"`
	AtTime   htlc.UnixTime `protobuf:"varint,2,opt,name=at_time,json=atTime,proto3" json:"at_time,omitempty"`
}

func (m *Expiration) Reset()      { *m = Expiration{} }
func (*Expiration) ProtoMessage() {}

// AtHeight returns an expiration reached at the given block height.
func AtHeight(height uint64) *Expiration {
	return &Expiration{AtHeight: height}
}

// AtTime returns an expiration reached at the given block time.
func AtTime(t htlc.UnixTime) *Expiration {
	return &Expiration{AtTime: t}
}

// Validate requires exactly one threshold to be set. Zero is the unset
// value of both thresholds.
func (m *Expiration) Validate() error {
	switch {
	case m == nil:
		return errors.Wrap(errors.ErrEmpty, "expiration")
	case m.AtHeight == 0 && m.AtTime == 0:
		return errors.Wrap(errors.ErrEmpty, "expiration height or time required")
	case m.AtHeight != 0 && m.AtTime != 0:
		return errors.Wrap(errors.ErrInput, "only one of expiration height and time allowed")
	case m.AtTime != 0:
		return m.AtTime.Validate()
	}
	return nil
}

// IsExpired returns true once the current block reached the threshold.
// Expiration is inclusive, a swap expiring at height 100 is expired in the
// block with height 100.
func (m *Expiration) IsExpired(info htlc.BlockInfo) bool {
	if m.AtHeight != 0 {
		return info.IsHeightReached(m.AtHeight)
	}
	return info.IsExpired(m.AtTime)
}

func (m *Expiration) String() string {
	if m == nil {
		return "never"
	}
	if m.AtHeight != 0 {
		return fmt.Sprintf("height: %d", m.AtHeight)
	}
	return fmt.Sprintf("time: %s", m.AtTime)
}

var _ proto.Message = (*Expiration)(nil)
