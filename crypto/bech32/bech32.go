// Package bech32 presents account addresses in the bech32 format. The
// human readable part of an address is the chain wide prefix configured as
// htlc.AddressPrefix, the data part carries the raw address bytes.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/htlc/errors"
)

// Encode returns the bech32 form of an address using prefix as the human
// readable part.
func Encode(prefix string, addr []byte) (string, error) {
	if prefix == "" {
		return "", errors.Wrap(errors.ErrEmpty, "address prefix")
	}
	groups, err := bech32.ConvertBits(addr, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "regroup address: %s", err)
	}
	enc, err := bech32.Encode(prefix, groups)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "encode address: %s", err)
	}
	return enc, nil
}

// Decode splits a bech32 address into its prefix and the address bytes.
// A broken checksum or an invalid character is reported as ErrInput.
func Decode(enc string) (prefix string, addr []byte, err error) {
	prefix, groups, err := bech32.Decode(enc)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "decode address: %s", err)
	}
	addr, err = bech32.ConvertBits(groups, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "regroup address: %s", err)
	}
	return prefix, addr, nil
}

// DecodePrefixed decodes enc and requires its human readable part to be
// prefix. Addresses of another chain are rejected with ErrInput.
func DecodePrefixed(prefix, enc string) ([]byte, error) {
	got, addr, err := Decode(enc)
	if err != nil {
		return nil, err
	}
	if got != prefix {
		return nil, errors.Wrapf(errors.ErrInput, "address prefix %q, want %q", got, prefix)
	}
	return addr, nil
}
