// coin.go - Coins and minting.
//
// Minting draws a serial number s, commits to it in the coin group and keeps the commitment
// only when it is a prime inside the accumulator's coin range. The search is bounded by
// MaxCoinMintAttempts.

package zerocoin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"zerocoin/internal/attempt"
	"zerocoin/internal/metrics"
)

// MaxCoinMintAttempts bounds the minting search unless WithMaxAttempts overrides it.
const MaxCoinMintAttempts uint64 = 10000

// Denomination is the face value of a coin. Coins and accumulators only mix within a
// denomination.
type Denomination uint32

const (
	Lovelace   Denomination = 1
	Goldwasser Denomination = 10
	Rackoff    Denomination = 25
	Pedersen   Denomination = 50
	Williamson Denomination = 100
)

func (d Denomination) String() string {
	switch d {
	case Lovelace:
		return "lovelace"
	case Goldwasser:
		return "goldwasser"
	case Rackoff:
		return "rackoff"
	case Pedersen:
		return "pedersen"
	case Williamson:
		return "williamson"
	default:
		return strconv.FormatUint(uint64(d), 10)
	}
}

// ParseDenomination accepts a classic name or a positive integer.
func ParseDenomination(s string) (Denomination, error) {
	for _, d := range []Denomination{Lovelace, Goldwasser, Rackoff, Pedersen, Williamson} {
		if s == d.String() {
			return d, nil
		}
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid denomination %q", ErrValidation, s)
	}
	return Denomination(v), nil
}

// standard reports whether d is one of the named denominations.
func (d Denomination) standard() bool {
	switch d {
	case Lovelace, Goldwasser, Rackoff, Pedersen, Williamson:
		return true
	}
	return false
}

// label is the metrics label value: the face value for named denominations and
// metrics.OtherDenomination for the rest.
func (d Denomination) label() string {
	if !d.standard() {
		return metrics.OtherDenomination
	}
	return strconv.FormatUint(uint64(d), 10)
}

// PublicCoin is the published half of a coin: its commitment value and denomination.
type PublicCoin struct {
	params       *Params
	value        *big.Int
	denomination Denomination
}

// NewPublicCoin wraps a received coin value. The value is not validated here; use Validate.
func NewPublicCoin(params *Params, value *big.Int, d Denomination) (*PublicCoin, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: coin value is missing", ErrValidation)
	}
	return &PublicCoin{params: params, value: new(big.Int).Set(value), denomination: d}, nil
}

// Value returns a copy of the coin value.
func (c *PublicCoin) Value() *big.Int { return new(big.Int).Set(c.value) }

// Denomination returns the coin's denomination.
func (c *PublicCoin) Denomination() Denomination { return c.denomination }

// Params returns the parameters the coin was made under.
func (c *PublicCoin) Params() *Params { return c.params }

// Validate reports whether the value is a prime strictly between the min and max coin values.
func (c *PublicCoin) Validate() bool {
	if c == nil || !c.params.Initialized() || c.value == nil {
		return false
	}
	return c.params.accumulatorParams.acceptsCoinValue(c.value)
}

// Equals compares value and denomination.
func (c *PublicCoin) Equals(o *PublicCoin) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.denomination == o.denomination && c.value.Cmp(o.value) == 0
}

// PrivateCoin holds the opening of a PublicCoin: the serial number and the commitment
// randomness.
type PrivateCoin struct {
	params       *Params
	serialNumber *big.Int
	randomness   *big.Int
	publicCoin   *PublicCoin
}

// SerialNumber returns a copy of s.
func (c *PrivateCoin) SerialNumber() *big.Int { return new(big.Int).Set(c.serialNumber) }

// Randomness returns a copy of the commitment randomness.
func (c *PrivateCoin) Randomness() *big.Int { return new(big.Int).Set(c.randomness) }

// PublicCoin returns the published half.
func (c *PrivateCoin) PublicCoin() *PublicCoin { return c.publicCoin }

// Params returns the parameters the coin was minted under.
func (c *PrivateCoin) Params() *Params { return c.params }

// Commitment rebuilds the coin commitment, e.g. as input to an equality proof.
func (c *PrivateCoin) Commitment() *Commitment {
	return newCommitment(c.params.coinCommitmentGroup, c.serialNumber, new(big.Int).Set(c.randomness))
}

// MintCoin mints a coin of denomination d. It fails with ErrExhausted when no valid coin is
// found within the attempt bound, and with the context's error when ctx ends first.
func MintCoin(ctx context.Context, rnd io.Reader, params *Params, d Denomination, opts ...Option) (*PrivateCoin, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	return mintCoin(ctx, rnd, params, d, newOptions(opts))
}

func mintCoin(ctx context.Context, rnd io.Reader, params *Params, d Denomination, o options) (*PrivateCoin, error) {
	group := params.coinCommitmentGroup
	acc := params.accumulatorParams
	label := d.label()
	start := time.Now()

	coin, attempts, err := attempt.Until[*PrivateCoin](ctx, o.maxAttempts, func(ctx context.Context, _ uint64) (*PrivateCoin, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		o.metrics.MintAttempt(label)
		s, err := randomBelow(rnd, group.order)
		if err != nil {
			return nil, false, err
		}
		c, err := NewCommitment(rnd, group, s)
		if err != nil {
			return nil, false, err
		}
		if !acc.acceptsCoinValue(c.commitmentValue) {
			return nil, false, nil
		}
		return &PrivateCoin{
			params:       params,
			serialNumber: s,
			randomness:   c.randomness,
			publicCoin:   &PublicCoin{params: params, value: c.commitmentValue, denomination: d},
		}, true, nil
	})
	switch {
	case err == nil:
		elapsed := time.Since(start)
		o.metrics.MintSucceeded(label, attempts, elapsed)
		o.logger.Debug().
			Stringer("denomination", d).
			Uint64("attempts", attempts).
			Dur("elapsed", elapsed).
			Msg("minted coin")
		return coin, nil
	case errors.Is(err, attempt.ErrExhausted):
		o.metrics.MintExhausted(label)
		o.logger.Debug().
			Stringer("denomination", d).
			Uint64("attempts", attempts).
			Msg("coin minting exhausted")
		return nil, fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
	default:
		return nil, err
	}
}

// MintCoins mints n coins concurrently on at most WithWorkers goroutines. The first failure
// cancels the remaining work. rnd is shared between workers behind a lock.
func MintCoins(ctx context.Context, rnd io.Reader, params *Params, d Denomination, n int, opts ...Option) ([]*PrivateCoin, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative coin count %d", ErrValidation, n)
	}
	o := newOptions(opts)
	shared := &lockedReader{r: source(rnd)}

	coins := make([]*PrivateCoin, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range coins {
		i := i
		g.Go(func() error {
			coin, err := mintCoin(ctx, shared, params, d, o)
			if err != nil {
				return fmt.Errorf("failed to mint coin %d: %w", i, err)
			}
			coins[i] = coin
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return coins, nil
}
