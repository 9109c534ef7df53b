package htlc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/iov-one/htlc/crypto/bech32"
	"github.com/iov-one/htlc/errors"
)

var (
	// AddressLength is the length of all addresses
	// You can modify it in init() before any addresses are calculated,
	// but it must not change during the lifetime of the kvstore
	AddressLength = 20

	// AddressPrefix is the bech32 human readable part used when an address
	// is presented as a string. It is configured from the genesis file.
	AddressPrefix = "htlc"
)

// Address represents a collision-free, one-way digest of a public key or any
// other identity. It will be of size AddressLength.
type Address []byte

// NewAddress hashes and truncates into the proper size
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// ParseAddress decodes the human readable representation of an address. Both
// bech32 (using the configured prefix) and "hex:" prefixed formats are
// accepted.
func ParseAddress(enc string) (Address, error) {
	if enc == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	if strings.HasPrefix(enc, "hex:") {
		raw, err := hex.DecodeString(enc[4:])
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex address")
		}
		addr := Address(raw)
		return addr, addr.Validate()
	}

	payload, err := bech32.DecodePrefixed(AddressPrefix, enc)
	if err != nil {
		return nil, errors.Wrapf(err, "address %q", enc)
	}
	addr := Address(payload)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// String returns a human readable bech32 representation.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	enc, err := bech32.Encode(AddressPrefix, a)
	if err != nil {
		return "hex:" + strings.ToUpper(hex.EncodeToString(a))
	}
	return enc
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) == 0 {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// MarshalJSON provides a bech32 representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts any format that ParseAddress does. An empty string
// zeroes the address.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
