/*
Package crypto holds the ed25519 keys used to sign transactions and helpers
to keep a private key in a file.
*/
package crypto

import (
	"io/ioutil"
	"os"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// SaveKey writes the private key to the given path. An existing file is
// never overwritten.
func SaveKey(path string, key *PrivateKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	raw, err := htlc.Marshal(key)
	if err != nil {
		return err
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create key file: %s", err)
	}
	defer fd.Close()
	if _, err := fd.Write(raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "cannot write key file: %s", err)
	}
	return fd.Close()
}

// LoadKey reads a private key written by SaveKey.
func LoadKey(path string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read key file: %s", err)
	}
	var key PrivateKey
	if err := htlc.Unmarshal(raw, &key); err != nil {
		return nil, err
	}
	if err := key.Validate(); err != nil {
		return nil, errors.Wrap(err, "key file")
	}
	return &key, nil
}
