package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all packages. Extensions register their own codes
// starting at 1000.
var (
	// ErrUnauthorized is returned when the sender is not allowed to
	// perform the operation or the signature does not verify.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrModel is returned when a model cannot be serialized or fails
	// validation before being written.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman signals a code path that must never be reached.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity is not in a state that allows
	// the operation.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrAmount is returned for invalid amounts of any kind.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for malformed input.
	ErrInput = Register(14, "invalid input")

	// ErrExpired is returned when a height or time deadline was reached.
	ErrExpired = Register(15, "expired")

	// ErrOverflow is returned when an arithmetic result does not fit its
	// type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrCurrency is returned for invalid or mismatching denominations.
	ErrCurrency = Register(17, "currency")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(18, "database")

	// ErrIteratorDone is returned by Next once an iterator is exhausted.
	ErrIteratorDone = Register(19, "iterator done")

	// ErrPanic is set only by Recover. Its message is never exposed
	// outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// usedCodes guards code uniqueness. Code 1 belongs to internal errors.
var usedCodes = map[uint32]*Error{
	1: nil,
}

// Register declares a new root error. It panics if the code is already
// taken, so call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		desc := "internal"
		if prev != nil {
			desc = prev.desc
		}
		panic(fmt.Sprintf("error code %d already registered as %q", code, desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Every error returned to a client should wrap one
// of them so that it carries a stable ABCI code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode returns the code this error was registered with.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New wraps this root error with the given description.
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is New with a format string.
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is this root error or wraps it. Errors joined
// with Append match if any of them does.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == error(e) {
			return true
		}
		switch x := err.(type) {
		case unpacker:
			for _, inner := range x.Unpack() {
				if e.Is(inner) {
					return true
				}
			}
			return false
		case causer:
			err = x.Cause()
		default:
			return false
		}
	}
	return false
}

// Wrap adds a description to err. The innermost wrap records a stack
// trace. Wrapping nil returns nil, so the result of a call can be wrapped
// unconditionally.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace of the innermost wrap after the message
// when used with %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	fmt.Fprint(s, e.Error())
	if verb != 'v' || !s.Flag('+') {
		return
	}
	if st := stackTrace(e); st != nil {
		fmt.Fprintf(s, "%+v", st)
	}
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// unpacker is implemented by errors joined with Append.
type unpacker interface {
	Unpack() []error
}

// stackTrace returns the first stack trace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// errIsNil also treats typed nil pointers as nil.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
