package aswap

import (
	"github.com/iov-one/htlc"
	"github.com/tendermint/tendermint/libs/common"
)

// Attribute keys of the swap transaction results.
const (
	TagAction    = "action"
	TagID        = "id"
	TagHash      = "hash"
	TagRecipient = "recipient"
	TagPreimage  = "preimage"
	TagTo        = "to"
)

func createTags(msg *CreateMsg) []common.KVPair {
	return []common.KVPair{
		htlc.Tag(TagAction, "create"),
		htlc.Tag(TagID, msg.ID),
		htlc.Tag(TagHash, msg.Hash),
		htlc.Tag(TagRecipient, msg.Recipient),
	}
}

func releaseTags(msg *ReleaseMsg, to htlc.Address) []common.KVPair {
	return []common.KVPair{
		htlc.Tag(TagAction, "release"),
		htlc.Tag(TagID, msg.ID),
		htlc.Tag(TagPreimage, msg.Preimage),
		htlc.Tag(TagTo, to.String()),
	}
}

func refundTags(msg *RefundMsg, to htlc.Address) []common.KVPair {
	return []common.KVPair{
		htlc.Tag(TagAction, "refund"),
		htlc.Tag(TagID, msg.ID),
		htlc.Tag(TagTo, to.String()),
	}
}
