package htlc_test

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestLoadMsg(t *testing.T) {
	msg := &htlctest.Msg{RoutePath: "swap/test"}

	t.Run("pointer destination", func(t *testing.T) {
		var dst *htlctest.Msg
		assert.Nil(t, htlc.LoadMsg(&htlctest.Tx{Msg: msg}, &dst))
		assert.Equal(t, msg, dst)
	})

	t.Run("value destination", func(t *testing.T) {
		var dst htlctest.Msg
		assert.Nil(t, htlc.LoadMsg(&htlctest.Tx{Msg: msg}, &dst))
		assert.Equal(t, "swap/test", dst.RoutePath)
	})

	t.Run("interface destination", func(t *testing.T) {
		var dst htlc.Msg
		assert.Nil(t, htlc.LoadMsg(&htlctest.Tx{Msg: msg}, &dst))
		assert.Equal(t, htlc.Msg(msg), dst)
	})

	t.Run("wrong type", func(t *testing.T) {
		var dst htlctest.Tx
		err := htlc.LoadMsg(&htlctest.Tx{Msg: msg}, &dst)
		assert.IsErr(t, errors.ErrType, err)
	})

	t.Run("not a pointer", func(t *testing.T) {
		var dst htlctest.Msg
		err := htlc.LoadMsg(&htlctest.Tx{Msg: msg}, dst)
		assert.IsErr(t, errors.ErrType, err)
	})

	t.Run("missing message", func(t *testing.T) {
		var dst htlctest.Msg
		err := htlc.LoadMsg(&htlctest.Tx{}, &dst)
		assert.IsErr(t, errors.ErrEmpty, err)
	})

	t.Run("get msg error", func(t *testing.T) {
		var dst htlctest.Msg
		err := htlc.LoadMsg(&htlctest.Tx{Err: errors.ErrState}, &dst)
		assert.IsErr(t, errors.ErrState, err)
	})

	t.Run("validation error", func(t *testing.T) {
		invalid := &htlctest.Msg{RoutePath: "swap/test", Err: errors.ErrInput}
		var dst htlctest.Msg
		err := htlc.LoadMsg(&htlctest.Tx{Msg: invalid}, &dst)
		assert.IsErr(t, errors.ErrInput, err)
	})
}
