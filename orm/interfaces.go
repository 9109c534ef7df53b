package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc"
)

// Model is what is stored in the bucket. It is serialized with protobuf
// and must be able to validate itself before it is written.
type Model interface {
	proto.Message
	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	Validate() error
}

// Reader defines an interface that allows reading objects from the db
type Reader interface {
	One(db htlc.ReadOnlyKVStore, key []byte, dest Model) error
	Has(db htlc.ReadOnlyKVStore, key []byte) (bool, error)
}
