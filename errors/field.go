package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the attribute it was raised for.
// Nested attributes use dot notation and list elements their index, for
// example Instructions.0.Amount. A nil err returns nil.
func Field(name string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds a field error for fieldErr to acc. Both may be nil,
// which makes it convenient for accumulating validation results.
func AppendField(acc error, name string, fieldErr error) error {
	return Append(acc, Field(name, fieldErr, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.field
}

// FieldErrors collects all errors within err that were created for the
// given field name.
func FieldErrors(err error, name string) []error {
	var found []error
	for !errIsNil(err) {
		if f, ok := err.(interface{ Field() string }); ok && f.Field() == name {
			return append(found, err)
		}
		switch x := err.(type) {
		case unpacker:
			for _, inner := range x.Unpack() {
				found = append(found, FieldErrors(inner, name)...)
			}
			return found
		case causer:
			err = x.Cause()
		default:
			return found
		}
	}
	return found
}
