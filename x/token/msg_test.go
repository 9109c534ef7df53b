package token

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestTransferMsgValidate(t *testing.T) {
	recipient := htlc.NewAddress([]byte("recipient"))

	cases := map[string]struct {
		msg     TransferMsg
		wantErr map[string]*errors.Error
	}{
		"valid": {
			msg: TransferMsg{Recipient: recipient, Amount: 10},
			wantErr: map[string]*errors.Error{
				"Recipient": nil,
				"Amount":    nil,
			},
		},
		"missing recipient": {
			msg: TransferMsg{Amount: 10},
			wantErr: map[string]*errors.Error{
				"Recipient": errors.ErrEmpty,
				"Amount":    nil,
			},
		},
		"zero amount": {
			msg: TransferMsg{Recipient: recipient},
			wantErr: map[string]*errors.Error{
				"Recipient": nil,
				"Amount":    errors.ErrAmount,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErr {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestTransferRoundTrip(t *testing.T) {
	recipient := htlc.NewAddress([]byte("recipient"))
	raw, err := NewTransfer(recipient, 1234)
	assert.Nil(t, err)

	msg, err := ParseTransfer(raw)
	assert.Nil(t, err)
	assert.Equal(t, recipient, msg.Recipient)
	assert.Equal(t, uint64(1234), msg.Amount)
	assert.Equal(t, "token/transfer", msg.Path())

	if _, err := NewTransfer(recipient, 0); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %+v", err)
	}
}
