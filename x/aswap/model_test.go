package aswap_test

import (
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/x/aswap"
)

func TestSwapValidate(t *testing.T) {
	alice, bob := htlctest.RandomAddress(), htlctest.RandomAddress()

	specs := map[string]struct {
		Mutator func(s *aswap.Swap)
		Exp     *errors.Error
	}{
		"Happy path": {},
		"Invalid hash": {
			Mutator: func(s *aswap.Swap) {
				s.Hash = s.Hash[:31]
			},
			Exp: aswap.ErrInvalidHash,
		},
		"Missing source": {
			Mutator: func(s *aswap.Swap) {
				s.Source = nil
			},
			Exp: errors.ErrEmpty,
		},
		"Same source and recipient": {
			Mutator: func(s *aswap.Swap) {
				s.Recipient = s.Source
			},
			Exp: aswap.ErrSameSenderRecipient,
		},
		"Two expirations": {
			Mutator: func(s *aswap.Swap) {
				s.Expires.AtTime = 1234
			},
			Exp: errors.ErrInput,
		},
		"Empty balance": {
			Mutator: func(s *aswap.Swap) {
				s.Native = nil
			},
			Exp: aswap.ErrEmptyBalance,
		},
		"Both balances": {
			Mutator: func(s *aswap.Swap) {
				s.Token = &aswap.TokenBalance{Contract: htlctest.RandomAddress(), Amount: 1}
			},
			Exp: errors.ErrState,
		},
		"Token balance only": {
			Mutator: func(s *aswap.Swap) {
				s.Native = nil
				s.Token = &aswap.TokenBalance{Contract: htlctest.RandomAddress(), Amount: 1}
			},
		},
		"Token without contract": {
			Mutator: func(s *aswap.Swap) {
				s.Native = nil
				s.Token = &aswap.TokenBalance{Amount: 1}
			},
			Exp: errors.ErrEmpty,
		},
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			swap := &aswap.Swap{
				Hash:      aswap.HashBytes([]byte(preimageText)),
				Source:    alice,
				Recipient: bob,
				Expires:   aswap.AtHeight(10),
				Native:    coin.Coins{coin.NewCoinp(10, "ucosm")},
			}
			if spec.Mutator != nil {
				spec.Mutator(swap)
			}
			err := swap.Validate()
			if spec.Exp == nil {
				assert.Nil(t, err)
				return
			}
			if !spec.Exp.Is(err) {
				t.Fatalf("want %v, got %+v", spec.Exp, err)
			}
		})
	}
}

func TestSwapValidateReportsEveryField(t *testing.T) {
	alice := htlctest.RandomAddress()
	swap := &aswap.Swap{
		Hash:      []byte("short"),
		Source:    alice,
		Recipient: alice,
	}
	assert.ErrorsIs(t, swap.Validate(),
		aswap.ErrInvalidHash,
		aswap.ErrSameSenderRecipient,
		errors.ErrEmpty,
		aswap.ErrEmptyBalance,
	)
}

func TestExpirationValidate(t *testing.T) {
	var missing *aswap.Expiration
	assert.IsErr(t, errors.ErrEmpty, missing.Validate())
	assert.IsErr(t, errors.ErrEmpty, (&aswap.Expiration{}).Validate())
	// Zero is the unset value on the wire, never a deadline in the past.
	assert.IsErr(t, errors.ErrEmpty, aswap.AtHeight(0).Validate())
	assert.IsErr(t, errors.ErrEmpty, aswap.AtTime(0).Validate())
	assert.IsErr(t, errors.ErrInput, (&aswap.Expiration{AtHeight: 1, AtTime: 1}).Validate())
	assert.IsErr(t, errors.ErrState, aswap.AtTime(-5).Validate())
	assert.Nil(t, aswap.AtHeight(1).Validate())
	assert.Nil(t, aswap.AtTime(1000).Validate())
}

func TestBalanceTransfer(t *testing.T) {
	dest := htlctest.RandomAddress()
	ledger := htlctest.RandomAddress()

	cases := map[string]struct {
		balance aswap.Balance
		empty   bool
		want    int
	}{
		"native": {
			balance: aswap.NativeBalance{coin.NewCoinp(1, "ucosm"), coin.NewCoinp(2, "uatom")},
			want:    1,
		},
		"no coins": {
			balance: aswap.NativeBalance(nil),
			empty:   true,
		},
		"zero coins": {
			balance: aswap.NativeBalance{coin.NewCoinp(0, "ucosm")},
			empty:   true,
		},
		"tokens": {
			balance: &aswap.TokenBalance{Contract: ledger, Amount: 10},
			want:    1,
		},
		"zero tokens": {
			balance: &aswap.TokenBalance{Contract: ledger},
			empty:   true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.empty, tc.balance.IsEmpty())
			ins, err := tc.balance.TransferTo(dest)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, len(ins))
			for _, in := range ins {
				assert.Nil(t, in.Validate())
			}
		})
	}
}

func TestNativeTransferIsNormalized(t *testing.T) {
	dest := htlctest.RandomAddress()
	b := aswap.NativeBalance{coin.NewCoinp(2, "uatom"), coin.NewCoinp(0, "uiov"), coin.NewCoinp(1, "ucosm")}
	ins, err := b.TransferTo(dest)
	assert.Nil(t, err)
	want := []htlc.Instruction{
		&htlc.BankSend{
			ToAddress: dest,
			Amount:    coin.Coins{coin.NewCoinp(2, "uatom"), coin.NewCoinp(1, "ucosm")},
		},
	}
	assert.Equal(t, want, ins)
}
