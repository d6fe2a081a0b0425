package zerocoin

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Validator decides whether a coin may enter an accumulator.
type Validator interface {
	Valid(c *PublicCoin) bool
}

// coinValidity runs the primality and range check every time.
type coinValidity struct{}

func (coinValidity) Valid(c *PublicCoin) bool { return c.Validate() }

type validityKey struct {
	params       *Params
	denomination Denomination
	value        string
}

// CoinValidator remembers the outcome of PublicCoin.Validate for recently seen coins, so
// that a witness owner replaying coins the global accumulator already checked does not
// repeat the primality test. It is safe for concurrent use.
type CoinValidator struct {
	cache *lru.Cache[validityKey, bool]
}

// NewCoinValidator keeps up to size results.
func NewCoinValidator(size int) (*CoinValidator, error) {
	cache, err := lru.New[validityKey, bool](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation cache: %w", err)
	}
	return &CoinValidator{cache: cache}, nil
}

// Valid returns the cached result for c, computing it on a miss.
func (v *CoinValidator) Valid(c *PublicCoin) bool {
	if c == nil || c.value == nil {
		return false
	}
	key := validityKey{params: c.params, denomination: c.denomination, value: c.value.Text(16)}
	if ok, hit := v.cache.Get(key); hit {
		return ok
	}
	ok := c.Validate()
	v.cache.Add(key, ok)
	return ok
}

// Len is the number of cached results.
func (v *CoinValidator) Len() int { return v.cache.Len() }
