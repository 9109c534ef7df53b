package htlc

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc/errors"
)

// Marshal serializes given message using protobuf encoding.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal deserializes protobuf encoded data into given message.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal %T: %s", m, err)
	}
	return nil
}

// assignMsg sets the destination to the value of the given message. The
// destination must be a pointer to either the message type or, for pointer
// messages, to the type the message points to.
func assignMsg(msg Msg, destination interface{}) error {
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrEmpty, "message")
	}
	src := reflect.ValueOf(msg)
	want := dst.Elem().Type()
	switch {
	case src.Type().AssignableTo(want):
		dst.Elem().Set(src)
	case src.Kind() == reflect.Ptr && src.Type().Elem().AssignableTo(want):
		if src.IsNil() {
			return errors.Wrap(errors.ErrEmpty, "message")
		}
		dst.Elem().Set(src.Elem())
	default:
		return errors.Wrapf(errors.ErrType, "want %s, got %T", want, msg)
	}
	return nil
}
