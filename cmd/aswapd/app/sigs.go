package app

import (
	"context"
	"crypto/sha512"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
const SignCodeV1 = "\x00\xCA\xFE\x00"

// signatureVerifyCost is the gas charged for checking one signature.
const signatureVerifyCost = 10

// SignedTx is a transaction that carries the public key and signature of its
// sender.
type SignedTx interface {
	htlc.Tx
	GetSignBytes() ([]byte, error)
	GetSigner() (*crypto.PublicKey, []byte)
}

/*
BuildSignBytes combines all info on the actual tx with the chainID
to produce a unique value to sign. The format is:

version | len(chainID) | chainID      | signBytes
4bytes  | uint8        | ascii string | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string) ([]byte, error) {
	if !htlc.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	output := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, chainID...)
	output = append(output, signBytes...)

	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// SignTx sets the sender and signature of the transaction using the given
// key.
func SignTx(key *crypto.PrivateKey, tx *Tx, chainID string) error {
	tx.Sender = key.PublicKey()
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return err
	}
	toSign, err := BuildSignBytes(signBytes, chainID)
	if err != nil {
		return err
	}
	sig, err := key.Sign(toSign)
	if err != nil {
		return err
	}
	tx.Signature = sig
	return nil
}

// VerifyTxSignature checks that the transaction was signed by the key it
// carries for the given chain.
func VerifyTxSignature(tx SignedTx, chainID string) error {
	pub, sig := tx.GetSigner()
	if err := pub.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signer")
	}
	if len(sig) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return err
	}
	toVerify, err := BuildSignBytes(signBytes, chainID)
	if err != nil {
		return err
	}
	if !pub.Verify(toVerify, sig) {
		return errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return nil
}

// SignatureDecorator rejects any transaction that is not signed by its
// sender for the current chain.
type SignatureDecorator struct{}

var _ htlc.Decorator = SignatureDecorator{}

// NewSignatureDecorator returns a decorator verifying transaction signatures.
func NewSignatureDecorator() SignatureDecorator {
	return SignatureDecorator{}
}

// Check verifies the signature before calling down the stack.
func (SignatureDecorator) Check(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	if err := verify(info, tx); err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, info, store, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += signatureVerifyCost
	return res, nil
}

// Deliver verifies the signature before calling down the stack.
func (SignatureDecorator) Deliver(ctx context.Context, info htlc.BlockInfo, store htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	if err := verify(info, tx); err != nil {
		return nil, err
	}
	return next.Deliver(ctx, info, store, tx)
}

func verify(info htlc.BlockInfo, tx htlc.Tx) error {
	stx, ok := tx.(SignedTx)
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "unsigned transaction %T", tx)
	}
	if err := VerifyTxSignature(stx, info.ChainID()); err != nil {
		return errors.Wrap(err, "cannot verify signature")
	}
	return nil
}
