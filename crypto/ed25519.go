package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key as sent along with transactions.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

func (p *PublicKey) Reset()         { *p = PublicKey{} }
func (p *PublicKey) String() string { return proto.CompactTextString(p) }
func (*PublicKey) ProtoMessage()    {}

// Validate returns an error if the key does not have the ed25519 key size.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "public key length %d", len(p.Ed25519))
	}
	return nil
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message, sig []byte) bool {
	if p.Validate() != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig)
}

// Address returns the identity controlled by this key.
func (p *PublicKey) Address() htlc.Address {
	data := make([]byte, 0, len(addressDomain)+len(p.Ed25519))
	data = append(data, addressDomain...)
	data = append(data, p.Ed25519...)
	return htlc.NewAddress(data)
}

// addressDomain separates key derived addresses from any other hashed
// identity.
const addressDomain = "sigs/ed25519/"

// PrivateKey is an ed25519 private key. It holds the 64 byte expanded form,
// the seed is its first half.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

func (p *PrivateKey) Reset()         { *p = PrivateKey{} }
func (p *PrivateKey) String() string { return "PrivateKey{***}" }
func (*PrivateKey) ProtoMessage()    {}

// Validate returns an error if the key does not have the ed25519 key size.
func (p *PrivateKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "private key")
	}
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return errors.Wrapf(errors.ErrInput, "private key length %d", len(p.Ed25519))
	}
	return nil
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
