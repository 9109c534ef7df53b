package aswap

import "github.com/iov-one/htlc/errors"

// Atomic swap reserves 1000~1009 error codes
var (
	// ErrInvalidID is returned when a swap identifier is not 3 to 20 bytes long.
	ErrInvalidID = errors.Register(1000, "invalid atomic swap id")

	// ErrEmptyBalance is returned when a swap is created without any value.
	ErrEmptyBalance = errors.Register(1001, "send some coins to create an atomic swap")

	// ErrInvalidHash is returned when a hex value does not decode to 32 bytes.
	ErrInvalidHash = errors.Register(1002, "invalid hash")

	// ErrParse is returned when a hex value cannot be decoded.
	ErrParse = errors.Register(1003, "hash parse error")

	// ErrSameSenderRecipient is returned when the depositor is also the recipient.
	ErrSameSenderRecipient = errors.Register(1004, "sender and recipient must differ")

	// ErrNotExpired is returned when refunding a swap that has not expired yet.
	ErrNotExpired = errors.Register(1005, "atomic swap not yet expired")

	// ErrInvalidPreimage is returned when the preimage does not hash to the
	// swap hash.
	ErrInvalidPreimage = errors.Register(1006, "invalid preimage")
)
