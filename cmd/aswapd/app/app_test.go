package app_test

import (
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/htlc"
	htlcApp "github.com/iov-one/htlc/app"
	aswapd "github.com/iov-one/htlc/cmd/aswapd/app"
	"github.com/iov-one/htlc/coin"
	"github.com/iov-one/htlc/crypto"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x/aswap"
	. "github.com/smartystreets/goconvey/convey"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	chainID      = "aswap-test-chain"
	preimageText = "This is a string, 32 bytes long."
)

var genesisTime = time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

// testChain drives an application one transaction per block.
type testChain struct {
	app    abci.Application
	height int64
}

func newTestChain(t *testing.T) *testChain {
	t.Helper()
	myApp, err := aswapd.GenerateApp("", log.NewNopLogger(), true)
	if err != nil {
		t.Fatalf("cannot generate app: %s", err)
	}
	opts, err := aswapd.GenInitOptions(nil)
	if err != nil {
		t.Fatalf("cannot generate init options: %s", err)
	}
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: opts})
	return &testChain{app: myApp}
}

func (c *testChain) now() time.Time {
	return genesisTime.Add(time.Duration(c.height) * time.Minute)
}

func (c *testChain) deliver(key *crypto.PrivateKey, msg htlc.Msg, funds coin.Coins) abci.ResponseDeliverTx {
	tx, err := aswapd.NewTx(msg, funds)
	So(err, ShouldBeNil)
	if key != nil {
		So(aswapd.SignTx(key, tx, chainID), ShouldBeNil)
	}
	raw, err := htlc.Marshal(tx)
	So(err, ShouldBeNil)

	c.height++
	header := abci.Header{Height: c.height, Time: c.now(), ChainID: chainID}
	c.app.BeginBlock(abci.RequestBeginBlock{Header: header})
	chres := c.app.CheckTx(raw)
	dres := c.app.DeliverTx(raw)
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()

	So(chres.Code, ShouldEqual, dres.Code)
	return dres
}

func (c *testChain) details(id string) (*aswap.DetailsResponse, abci.ResponseQuery) {
	res := c.app.Query(abci.RequestQuery{Path: "/aswap/details", Data: []byte(id)})
	if res.Code != 0 {
		return nil, res
	}
	var values htlcApp.ResultSet
	So(htlc.Unmarshal(res.Value, &values), ShouldBeNil)
	So(values.Results, ShouldHaveLength, 1)
	var details aswap.DetailsResponse
	So(json.Unmarshal(values.Results[0], &details), ShouldBeNil)
	return &details, res
}

func decodeInstructions(data []byte) []htlc.Instruction {
	ins, err := htlc.DecodeInstructions(data)
	So(err, ShouldBeNil)
	return ins
}

func TestAtomicSwapFlow(t *testing.T) {
	Convey("Given a fresh chain and two accounts", t, func() {
		chain := newTestChain(t)
		alice := crypto.GenPrivKeyEd25519()
		bob := crypto.GenPrivKeyEd25519()
		bobAddr := bob.PublicKey().Address()

		preimage := hex.EncodeToString([]byte(preimageText))
		hash := hex.EncodeToString(aswap.HashBytes([]byte(preimageText)))
		funds := coin.Coins{coin.NewCoinp(500, "ucosm")}

		create := func(id string, expires *aswap.Expiration) abci.ResponseDeliverTx {
			return chain.deliver(alice, &aswap.CreateMsg{
				ID:        id,
				Hash:      hash,
				Recipient: bobAddr.String(),
				Expires:   expires,
			}, funds)
		}

		Convey("An unsigned transaction is rejected", func() {
			res := chain.deliver(nil, &aswap.RefundMsg{ID: "swap1"}, nil)
			So(res.Code, ShouldEqual, errors.ErrUnauthorized.ABCICode())
		})

		Convey("A transaction signed for another chain is rejected", func() {
			tx, err := aswapd.NewTx(&aswap.RefundMsg{ID: "swap1"}, nil)
			So(err, ShouldBeNil)
			So(aswapd.SignTx(alice, tx, "other-chain"), ShouldBeNil)
			raw, err := htlc.Marshal(tx)
			So(err, ShouldBeNil)
			res := chain.app.CheckTx(raw)
			So(res.Code, ShouldEqual, errors.ErrUnauthorized.ABCICode())
		})

		Convey("A created swap can be queried", func() {
			expires := aswap.AtTime(htlc.AsUnixTime(genesisTime.Add(time.Hour)))
			res := create("swap1", expires)
			So(res.Code, ShouldEqual, 0)
			So(string(res.Data), ShouldEqual, "swap1")

			details, _ := chain.details("swap1")
			So(details.ID, ShouldEqual, "swap1")
			So(details.Hash, ShouldEqual, hash)
			So(details.Recipient, ShouldEqual, bobAddr.String())
			So(details.Source, ShouldEqual, alice.PublicKey().Address().String())
			So(details.Balance.Native, ShouldResemble, funds)

			Convey("The identifier cannot be reused while the swap is live", func() {
				res := create("swap1", expires)
				So(res.Code, ShouldEqual, errors.ErrDuplicate.ABCICode())
			})

			Convey("A wrong preimage does not release the funds", func() {
				wrong := hex.EncodeToString([]byte("This is another string, 32 long."))
				res := chain.deliver(bob, &aswap.ReleaseMsg{ID: "swap1", Preimage: wrong}, nil)
				So(res.Code, ShouldNotEqual, 0)

				details, _ := chain.details("swap1")
				So(details, ShouldNotBeNil)
			})

			Convey("The right preimage sends the funds to the recipient", func() {
				res := chain.deliver(bob, &aswap.ReleaseMsg{ID: "swap1", Preimage: preimage}, nil)
				So(res.Code, ShouldEqual, 0)
				So(decodeInstructions(res.Data), ShouldResemble, []htlc.Instruction{
					&htlc.BankSend{ToAddress: bobAddr, Amount: funds},
				})

				Convey("and removes the swap", func() {
					details, qres := chain.details("swap1")
					So(details, ShouldBeNil)
					So(qres.Code, ShouldEqual, errors.ErrNotFound.ABCICode())
				})
			})

			Convey("A refund before the expiration fails", func() {
				res := chain.deliver(alice, &aswap.RefundMsg{ID: "swap1"}, nil)
				So(res.Code, ShouldNotEqual, 0)
			})
		})

		Convey("An expired swap is refunded to its source", func() {
			res := create("swap2", aswap.AtHeight(3))
			So(res.Code, ShouldEqual, 0)

			// height 2 does not reach the expiration yet
			res = chain.deliver(bob, &aswap.ReleaseMsg{ID: "swap2", Preimage: preimage}, nil)
			So(res.Code, ShouldEqual, 0)
			So(decodeInstructions(res.Data), ShouldHaveLength, 1)

			res = create("swap3", aswap.AtHeight(5))
			So(res.Code, ShouldEqual, 0)

			// height 4 and 5, the expiration is inclusive
			chain.deliver(alice, &aswap.RefundMsg{ID: "unknown"}, nil)
			res = chain.deliver(bob, &aswap.RefundMsg{ID: "swap3"}, nil)
			So(res.Code, ShouldEqual, 0)
			So(decodeInstructions(res.Data), ShouldResemble, []htlc.Instruction{
				&htlc.BankSend{ToAddress: alice.PublicKey().Address(), Amount: funds},
			})
		})
	})
}

func TestGenesisConf(t *testing.T) {
	Convey("Given an application", t, func() {
		myApp, err := aswapd.GenerateApp("", log.NewNopLogger(), false)
		So(err, ShouldBeNil)
		defer func(prefix string) { htlc.AddressPrefix = prefix }(htlc.AddressPrefix)

		Convey("An invalid prefix is rejected", func() {
			_, err := aswapd.GenInitOptions([]string{"Not-Valid"})
			So(err, ShouldNotBeNil)
		})

		Convey("The genesis prefix is applied and exposed", func() {
			opts, err := aswapd.GenInitOptions([]string{"swap"})
			So(err, ShouldBeNil)
			myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: opts})
			myApp.Commit()
			So(htlc.AddressPrefix, ShouldEqual, "swap")

			res := myApp.Query(abci.RequestQuery{Path: "/conf"})
			So(res.Code, ShouldEqual, 0)
			var values htlcApp.ResultSet
			So(htlc.Unmarshal(res.Value, &values), ShouldBeNil)
			So(values.Results, ShouldHaveLength, 1)
			var conf aswapd.Conf
			So(json.Unmarshal(values.Results[0], &conf), ShouldBeNil)
			So(conf.HTLC.AddressPrefix, ShouldEqual, "swap")

			res = myApp.Query(abci.RequestQuery{Path: "/aswap/version"})
			So(res.Code, ShouldEqual, 0)
		})
	})
}
