package aswap

import (
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
)

const (
	// DefaultListLimit is used when a list query does not set a limit.
	DefaultListLimit = 10
	// MaxListLimit is the largest page a list query returns.
	MaxListLimit = 30
)

// DetailsResponse is the human readable form of a swap.
type DetailsResponse struct {
	ID        string       `json:"id"`
	Hash      string       `json:"hash"`
	Recipient string       `json:"recipient"`
	Source    string       `json:"source"`
	Expires   *Expiration  `json:"expires"`
	Balance   BalanceHuman `json:"balance"`
}

// BalanceHuman presents a balance with exactly one of Native and
// LedgerAsset set. Display is a one line summary.
type BalanceHuman struct {
	Native      coin.Coins        `json:"native,omitempty"`
	LedgerAsset *LedgerAssetHuman `json:"ledger_asset,omitempty"`
	Display     string            `json:"display"`
}

// LedgerAssetHuman is a token amount with its issuing contract.
type LedgerAssetHuman struct {
	Issuer string `json:"issuer"`
	Amount uint64 `json:"amount,string"`
}

// ListResponse holds a page of swap identifiers in ascending order.
type ListResponse struct {
	Swaps []string `json:"swaps"`
}

// ListRequest is the JSON encoded request of the list query. Both fields
// are optional.
type ListRequest struct {
	After *string `json:"after,omitempty"`
	Limit *uint32 `json:"limit,omitempty"`
}

// Details returns the swap with the given identifier or ErrNotFound.
func Details(db htlc.ReadOnlyKVStore, id string) (*DetailsResponse, error) {
	swap, err := NewBucket().Load(db, id)
	if err != nil {
		return nil, err
	}
	res := DetailsResponse{
		ID:        id,
		Hash:      hex.EncodeToString(swap.Hash),
		Recipient: swap.Recipient.String(),
		Source:    swap.Source.String(),
		Expires:   swap.Expires,
		Balance: BalanceHuman{
			Display: swap.Balance().String(),
		},
	}
	if swap.Token != nil {
		res.Balance.LedgerAsset = &LedgerAssetHuman{
			Issuer: swap.Token.Contract.String(),
			Amount: swap.Token.Amount,
		}
	} else {
		res.Balance.Native = swap.Native
	}
	return &res, nil
}

// List returns swap identifiers in ascending order, strictly after the
// given one. The page is DefaultListLimit long unless a limit is given,
// and never longer than MaxListLimit.
func List(db htlc.ReadOnlyKVStore, after *string, limit *uint32) (*ListResponse, error) {
	n := DefaultListLimit
	if limit != nil {
		n = int(*limit)
	}
	if n > MaxListLimit {
		n = MaxListLimit
	}
	ids, err := NewBucket().IDs(db, after, n)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return &ListResponse{Swaps: ids}, nil
}

// RegisterQuery will register the swap queries.
//
//   /aswaps         raw bucket access, by key or prefix
//   /aswap/details  data is the swap id, returns DetailsResponse
//   /aswap/list     data is a ListRequest, returns ListResponse
//   /aswap/version  returns the contract version written at genesis
func RegisterQuery(qr htlc.QueryRouter) {
	NewBucket().Register("aswaps", qr)
	qr.Register("/aswap/details", detailsQuery{})
	qr.Register("/aswap/list", listQuery{})
	qr.Register("/aswap/version", versionQuery{})
}

type detailsQuery struct{}

// Query returns a single model with the swap id as key and a JSON encoded
// DetailsResponse as value.
func (detailsQuery) Query(db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	if mod != htlc.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	res, err := Details(db, string(data))
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return []htlc.Model{htlc.Pair(data, raw)}, nil
}

type listQuery struct{}

// Query returns a single model with a JSON encoded ListResponse as value.
// Empty data lists from the start with the default limit.
func (listQuery) Query(db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	if mod != htlc.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	var req ListRequest
	if len(data) != 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	res, err := List(db, req.After, req.Limit)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return []htlc.Model{htlc.Pair([]byte("swaps"), raw)}, nil
}
