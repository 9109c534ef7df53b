package aswap_test

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/x/aswap"
)

func TestCreateMsgValidate(t *testing.T) {
	specs := map[string]struct {
		ID  string
		Exp *errors.Error
	}{
		"Shortest id":   {ID: "abc"},
		"Longest id":    {ID: "abcdefghijklmnopqrst"},
		"Too short":     {ID: "sh", Exp: aswap.ErrInvalidID},
		"Too long":      {ID: "atomic_swap_id_too_long", Exp: aswap.ErrInvalidID},
		"Empty":         {ID: "", Exp: aswap.ErrInvalidID},
		"Multibyte ok":  {ID: "żółw"},
		"Multibyte max": {ID: "żżżżżżżżżżż", Exp: aswap.ErrInvalidID},
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			msg := aswap.CreateMsg{ID: spec.ID}
			err := msg.Validate()
			if !spec.Exp.Is(err) {
				t.Fatalf("want %v, got %+v", spec.Exp, err)
			}
		})
	}
}

func TestMsgPaths(t *testing.T) {
	msgs := map[string]htlc.Msg{
		"aswap/create":  &aswap.CreateMsg{},
		"aswap/release": &aswap.ReleaseMsg{},
		"aswap/refund":  &aswap.RefundMsg{},
		"aswap/receive": &aswap.ReceiveMsg{},
	}
	for path, msg := range msgs {
		assert.Equal(t, path, msg.Path())
	}
}

func TestReceiveMsgCreateMsg(t *testing.T) {
	create := &aswap.CreateMsg{
		ID:        "swap1",
		Hash:      hash,
		Recipient: "recipient",
		Expires:   aswap.AtHeight(7),
	}
	raw, err := htlc.Marshal(create)
	assert.Nil(t, err)

	msg := aswap.ReceiveMsg{Sender: "sender", Amount: 3, Msg: raw}
	assert.Nil(t, msg.Validate())
	got, err := msg.CreateMsg()
	assert.Nil(t, err)
	assert.Equal(t, create, got)

	empty := aswap.ReceiveMsg{Sender: "sender", Amount: 3}
	assert.FieldError(t, empty.Validate(), "Msg", errors.ErrEmpty)
}
