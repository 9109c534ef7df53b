package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/htlc/errors"
)

// Coins is a set of coins of distinct denominations, sorted by denomination
// and free of zero amounts. Use NormalizeCoins on input that may not hold
// these properties.
type Coins []*Coin

// CombineCoins builds a normalized set out of any coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	set := make(Coins, 0, len(cs))
	for _, c := range cs {
		var err error
		if set, err = set.Add(c); err != nil {
			return nil, err
		}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Clone returns a deep copy.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	cpy := make(Coins, len(cs))
	for i, c := range cs {
		cpy[i] = c.Clone()
	}
	return cpy
}

// Add increases the holding of c's denomination, keeping the order. The
// receiver may be modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i := cs.index(c.Denom)
	if i < len(cs) && cs[i].Denom == c.Denom {
		sum, err := cs[i].Add(c)
		if err != nil {
			return nil, err
		}
		cs[i] = &sum
		return cs, nil
	}
	cs = append(cs, nil)
	copy(cs[i+1:], cs[i:])
	cs[i] = &c
	return cs, nil
}

// Combine returns the sum of both sets without modifying either.
func (cs Coins) Combine(o Coins) (Coins, error) {
	sum := cs.Clone()
	for _, c := range o {
		var err error
		if sum, err = sum.Add(*c); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// Contains returns true if the set holds at least c.
func (cs Coins) Contains(c Coin) bool {
	i := cs.index(c.Denom)
	return i < len(cs) && cs[i].IsGTE(c)
}

// index returns the position of denom, or where it would be inserted.
func (cs Coins) index(denom string) int {
	return sort.Search(len(cs), func(i int) bool {
		return cs[i].Denom >= denom
	})
}

// IsEmpty returns true if no coin in the set carries value. The set does
// not have to be normalized.
func (cs Coins) IsEmpty() bool {
	for _, c := range cs {
		if !IsEmpty(c) {
			return false
		}
	}
	return true
}

// Equals compares two normalized sets.
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Validate returns an error unless every coin is valid and non zero and the
// set is strictly ordered by denomination.
func (cs Coins) Validate() error {
	var errs error
	for i, c := range cs {
		if c == nil {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrEmpty, "coin %d", i))
			continue
		}
		errs = errors.Append(errs, errors.Wrapf(c.Validate(), "coin %d", i))
		if c.IsZero() {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrState, "coin %d is zero", i))
		}
		if i > 0 && cs[i-1] != nil && cs[i-1].Denom >= c.Denom {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrState, "coin %d not sorted or duplicated", i))
		}
	}
	return errs
}

// NormalizeCoins merges coins of the same denomination, drops empty ones
// and sorts the result. A set that is already normalized is returned as is.
// An empty result is always nil.
func NormalizeCoins(cs Coins) (Coins, error) {
	if normalized(cs) {
		if len(cs) == 0 {
			return nil, nil
		}
		return cs, nil
	}
	var res Coins
	for _, c := range cs {
		if IsEmpty(c) {
			continue
		}
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, errors.Wrap(err, "cannot sum coins")
		}
	}
	return res, nil
}

func normalized(cs Coins) bool {
	for i, c := range cs {
		if IsEmpty(c) {
			return false
		}
		if i > 0 && cs[i-1].Denom >= c.Denom {
			return false
		}
	}
	return true
}
