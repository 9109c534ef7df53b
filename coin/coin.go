package coin

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/htlc/errors"
)

const denomPattern = `[a-zA-Z][a-zA-Z0-9/:._-]{2,127}`

var (
	// IsDenom reports whether a denomination name is valid.
	IsDenom = regexp.MustCompile(`^` + denomPattern + `$`).MatchString

	humanRx = regexp.MustCompile(`^(\d+)\s*(` + denomPattern + `)$`)
)

// Coin is an amount of a single native denomination.
type Coin struct {
	Denom  string `protobuf:"bytes,1,opt,name=denom,proto3" json:"denom"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,string"`
}

func (c *Coin) Reset()      { *c = Coin{} }
func (*Coin) ProtoMessage() {}

var _ proto.Message = (*Coin)(nil)

func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: amount}
}

func NewCoinp(amount uint64, denom string) *Coin {
	c := NewCoin(amount, denom)
	return &c
}

// Add returns the sum of both coins. A zero coin without denomination is
// neutral. Mixing denominations or overflowing is an error.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Denom == "" && c.IsZero():
		return o, nil
	case o.Denom == "" && o.IsZero():
		return c, nil
	case c.Denom != o.Denom:
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Denom, c.Denom)
	case c.Amount > math.MaxUint64-o.Amount:
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "adding %d to %d", o.Amount, c.Amount)
	}
	c.Amount += o.Amount
	return c, nil
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

// IsEmpty returns true for a nil or zero coin.
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsGTE returns true if c is of the same denomination and holds at least
// as much as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.Denom == o.Denom && c.Amount >= o.Amount
}

func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate checks the denomination only. Zero amounts are valid.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.Wrapf(errors.ErrCurrency, "invalid denomination: %q", c.Denom)
	}
	return nil
}

// UnmarshalJSON accepts either "<amount> <denom>" or the object notation.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var obj struct {
		Denom  string `json:"denom"`
		Amount uint64 `json:"amount,string"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin{Denom: obj.Denom, Amount: obj.Amount}
	return nil
}

// String returns "<amount> <denom>", which ParseHumanFormat accepts.
func (c Coin) String() string {
	s := strconv.FormatUint(c.Amount, 10)
	if c.Denom == "" {
		return s
	}
	return s + " " + c.Denom
}

// ParseHumanFormat parses "<amount>[ ]<denom>", for example "10 IOV".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanRx.FindStringSubmatch(h)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid amount: %s", err)
	}
	return Coin{Denom: m[2], Amount: amount}, nil
}
