package aswap

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

const (
	bucketName = "aswap"

	// hashSize is the sha256 digest size in bytes, for both the hash and
	// the preimage.
	hashSize = 32

	minIDLength = 3
	maxIDLength = 20
)

// Swap is a live atomic swap. It is stored under its identifier and deleted
// once released or refunded.
//
// The balance is either Native or Token, never both.
type Swap struct {
	Hash      []byte        `protobuf:"bytes,1,opt,name=hash,proto3" json:"hash"`
	Source    htlc.Address  `protobuf:"bytes,2,opt,name=source,proto3" json:"source"`
	Recipient htlc.Address  `protobuf:"bytes,3,opt,name=recipient,proto3" json:"recipient"`
	Expires   *Expiration   `protobuf:"bytes,4,opt,name=expires,proto3" json:"expires"`
	Native    coin.Coins    `protobuf:"bytes,5,rep,name=native,proto3" json:"native,omitempty"`
	Token     *TokenBalance `protobuf:"bytes,6,opt,name=token,proto3" json:"token,omitempty"`
}

var _ orm.Model = (*Swap)(nil)

func (m *Swap) Reset()         { *m = Swap{} }
func (m *Swap) String() string { return proto.CompactTextString(m) }
func (*Swap) ProtoMessage()    {}

// Balance returns the value locked in this swap.
func (m *Swap) Balance() Balance {
	if m.Token != nil {
		return m.Token
	}
	return NativeBalance(m.Native)
}

// setBalance stores the balance in the field matching its kind. Native
// coins are stored normalized.
func (m *Swap) setBalance(b Balance) error {
	switch b := b.(type) {
	case NativeBalance:
		native, err := coin.NormalizeCoins(coin.Coins(b))
		if err != nil {
			return errors.Wrap(err, "native balance")
		}
		m.Native, m.Token = native, nil
	case *TokenBalance:
		m.Native, m.Token = nil, b
	default:
		return errors.Wrapf(errors.ErrType, "balance %T", b)
	}
	return nil
}

// Validate ensures the Swap is valid
func (m *Swap) Validate() error {
	var errs error
	if len(m.Hash) != hashSize {
		errs = errors.AppendField(errs, "Hash", errors.Wrapf(ErrInvalidHash, "%d bytes", len(m.Hash)))
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if bytes.Equal(m.Source, m.Recipient) {
		errs = errors.AppendField(errs, "Recipient", ErrSameSenderRecipient)
	}
	errs = errors.AppendField(errs, "Expires", m.Expires.Validate())

	switch {
	case m.Token != nil && len(m.Native) != 0:
		errs = errors.AppendField(errs, "Token", errors.Wrap(errors.ErrState, "native and token balance"))
	case m.Token != nil:
		errs = errors.AppendField(errs, "Token", m.Token.Validate())
	case len(m.Native) != 0:
		errs = errors.AppendField(errs, "Native", m.Native.Validate())
	}
	if m.Balance().IsEmpty() {
		errs = errors.Append(errs, ErrEmptyBalance)
	}
	return errs
}

// isValidID returns true if the identifier is 3 to 20 bytes long.
func isValidID(id string) bool {
	return len(id) >= minIDLength && len(id) <= maxIDLength
}

// Bucket stores swaps by their identifier.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for managing swaps.
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(bucketName)}
}

// Create stores a new swap. It fails with ErrDuplicate if a live swap
// already uses the identifier.
func (b Bucket) Create(db htlc.KVStore, id string, swap *Swap) error {
	if err := b.Insert(db, []byte(id), swap); err != nil {
		if errors.ErrDuplicate.Is(err) {
			return errors.Wrap(errors.ErrDuplicate, "atomic swap already exists")
		}
		return err
	}
	return nil
}

// Load returns the swap with the given identifier or ErrNotFound.
func (b Bucket) Load(db htlc.ReadOnlyKVStore, id string) (*Swap, error) {
	var swap Swap
	if err := b.One(db, []byte(id), &swap); err != nil {
		return nil, err
	}
	return &swap, nil
}

// Remove deletes the swap with the given identifier.
func (b Bucket) Remove(db htlc.KVStore, id string) error {
	return b.Delete(db, []byte(id))
}

// IDs returns up to limit swap identifiers greater than after, in
// ascending order.
func (b Bucket) IDs(db htlc.ReadOnlyKVStore, after *string, limit int) ([]string, error) {
	var start []byte
	if after != nil {
		start = []byte(*after)
	}
	keys, err := b.Keys(db, start, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = string(k)
	}
	return ids, nil
}
