package aswap

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

const contractName = "aswap"

// ContractVersion records which software created the swap state.
type ContractVersion struct {
	Contract string `protobuf:"bytes,1,opt,name=contract,proto3" json:"contract"`
	Version  string `protobuf:"bytes,2,opt,name=version,proto3" json:"version"`
}

func (m *ContractVersion) Reset()         { *m = ContractVersion{} }
func (m *ContractVersion) String() string { return proto.CompactTextString(m) }
func (*ContractVersion) ProtoMessage()    {}

// Validate requires both fields.
func (m *ContractVersion) Validate() error {
	if m.Contract == "" {
		return errors.Field("Contract", errors.ErrEmpty, "required")
	}
	if m.Version == "" {
		return errors.Field("Version", errors.ErrEmpty, "required")
	}
	return nil
}

func newVersionBucket() orm.Bucket {
	return orm.NewBucket("contract")
}

// LoadVersion returns the contract version stored at genesis.
func LoadVersion(db htlc.ReadOnlyKVStore) (*ContractVersion, error) {
	var v ContractVersion
	if err := newVersionBucket().One(db, []byte(contractName), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type versionQuery struct{}

func (versionQuery) Query(db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	v, err := LoadVersion(db)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return []htlc.Model{htlc.Pair([]byte(contractName), raw)}, nil
}

// GenesisSwap is a swap preloaded from the genesis file. Exactly one of
// Native and Token must be set.
type GenesisSwap struct {
	ID        string        `json:"id"`
	Hash      string        `json:"hash"`
	Source    htlc.Address  `json:"source"`
	Recipient htlc.Address  `json:"recipient"`
	Expires   *Expiration   `json:"expires"`
	Native    coin.Coins    `json:"native,omitempty"`
	Token     *TokenBalance `json:"token,omitempty"`
}

// Initializer fulfils the htlc.Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ htlc.Initializer = (*Initializer)(nil)

// FromGenesis records the contract version and stores all swaps listed
// under the "aswap" key.
func (*Initializer) FromGenesis(opts htlc.Options, db htlc.KVStore) error {
	version := ContractVersion{Contract: contractName, Version: htlc.Version()}
	if err := newVersionBucket().Insert(db, []byte(contractName), &version); err != nil {
		return errors.Wrap(err, "contract version")
	}

	var swaps []GenesisSwap
	if err := opts.ReadOptions("aswap", &swaps); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewBucket()
	for i, s := range swaps {
		if !isValidID(s.ID) {
			return errors.Wrapf(ErrInvalidID, "swap %d", i)
		}
		hash, err := parseHex32(s.Hash)
		if err != nil {
			return errors.Wrapf(err, "swap %q", s.ID)
		}
		swap := Swap{
			Hash:      hash,
			Source:    s.Source,
			Recipient: s.Recipient,
			Expires:   s.Expires,
			Native:    s.Native,
			Token:     s.Token,
		}
		if err := swap.Validate(); err != nil {
			return errors.Wrapf(err, "swap %q", s.ID)
		}
		if err := bucket.Create(db, s.ID, &swap); err != nil {
			return errors.Wrapf(err, "swap %q", s.ID)
		}
	}
	return nil
}
