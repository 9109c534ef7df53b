package htlc_test

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestInstructionsEncoding(t *testing.T) {
	ins := []htlc.Instruction{
		&htlc.BankSend{
			ToAddress: htlctest.RandomAddress(),
			Amount:    coin.Coins{coin.NewCoinp(100, "ucosm")},
		},
		&htlc.ContractExecute{
			Contract: htlctest.RandomAddress(),
			Msg:      []byte(`{"transfer":{}}`),
		},
	}
	raw, err := htlc.EncodeInstructions(ins)
	assert.Nil(t, err)

	got, err := htlc.DecodeInstructions(raw)
	assert.Nil(t, err)
	assert.Equal(t, ins, got)

	raw, err = htlc.EncodeInstructions(nil)
	assert.Nil(t, err)
	got, err = htlc.DecodeInstructions(raw)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(got))
}

func TestInstructionValidation(t *testing.T) {
	cases := map[string]struct {
		in      htlc.Instruction
		wantErr *errors.Error
	}{
		"valid send": {
			in: &htlc.BankSend{ToAddress: htlctest.RandomAddress(), Amount: coin.Coins{coin.NewCoinp(1, "ucosm")}},
		},
		"send without destination": {
			in:      &htlc.BankSend{Amount: coin.Coins{coin.NewCoinp(1, "ucosm")}},
			wantErr: errors.ErrEmpty,
		},
		"valid execute": {
			in: &htlc.ContractExecute{Contract: htlctest.RandomAddress(), Msg: []byte("{}")},
		},
		"execute without message": {
			in:      &htlc.ContractExecute{Contract: htlctest.RandomAddress()},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}
