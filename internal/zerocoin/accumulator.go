// accumulator.go - RSA accumulator over coins of one denomination.
//
// v starts at the base and every accumulated coin c updates v = v^c mod N. Exponentiation
// commutes, so the final value does not depend on the order coins arrive in.

package zerocoin

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"zerocoin/internal/metrics"
)

// Rejection reasons reported to metrics.
const (
	rejectDenomination = "denomination"
	rejectInvalid      = "invalid"
)

// Accumulator is an append-only RSA accumulator. It is not safe for concurrent updates.
type Accumulator struct {
	params       *AccumulatorParams
	value        *big.Int
	denomination Denomination

	logger    zerolog.Logger
	metrics   metrics.Collector
	validator Validator
}

// NewAccumulator returns an empty accumulator for coins of denomination d.
func NewAccumulator(params *AccumulatorParams, d Denomination, opts ...Option) (*Accumulator, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return &Accumulator{
		params:       params,
		value:        new(big.Int).Set(params.base),
		denomination: d,
		logger:       o.logger,
		metrics:      o.metrics,
		validator:    o.validator,
	}, nil
}

// Accumulate adds coin. Coins of another denomination, coins made under other accumulator
// parameters and coins that fail validation are refused with ErrValidation. An Accumulator
// not built by NewAccumulator fails with ErrConfiguration.
func (a *Accumulator) Accumulate(coin *PublicCoin) error {
	if err := a.check(); err != nil {
		return err
	}
	label := a.denomination.label()
	if reason, err := a.admit(coin); err != nil {
		if reason != "" {
			a.metrics.CoinRejected(label, reason)
			a.logger.Debug().Stringer("denomination", a.denomination).Str("reason", reason).Msg("refused coin")
		}
		return err
	}
	a.raise(coin.value)
	a.metrics.CoinAccumulated(label)
	return nil
}

func (a *Accumulator) check() error {
	if a == nil || a.value == nil || !a.params.Initialized() || a.metrics == nil || a.validator == nil {
		return fmt.Errorf("%w: accumulator was not created with NewAccumulator", ErrConfiguration)
	}
	return nil
}

// admit checks coin against the accumulator without recording anything. The reason is
// the metrics label for a refused coin.
func (a *Accumulator) admit(coin *PublicCoin) (string, error) {
	if coin == nil {
		return "", fmt.Errorf("%w: coin is missing", ErrValidation)
	}
	if coin.denomination != a.denomination {
		return rejectDenomination, fmt.Errorf("%w: wrong denomination for coin, expected %s got %s",
			ErrValidation, a.denomination, coin.denomination)
	}
	if !coin.params.Initialized() || !coin.params.accumulatorParams.Equal(a.params) || !a.validator.Valid(coin) {
		return rejectInvalid, fmt.Errorf("%w: coin is not valid", ErrValidation)
	}
	return "", nil
}

func (a *Accumulator) raise(e *big.Int) {
	a.value.Exp(a.value, e, a.params.modulus)
}

// Equals reports whether both accumulators hold the same value.
func (a *Accumulator) Equals(o *Accumulator) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.value.Cmp(o.value) == 0
}

// Value returns a copy of the current accumulator value.
func (a *Accumulator) Value() *big.Int { return new(big.Int).Set(a.value) }

// Denomination is the denomination the accumulator takes.
func (a *Accumulator) Denomination() Denomination { return a.denomination }

// Params returns the accumulator parameters.
func (a *Accumulator) Params() *AccumulatorParams { return a.params }

// Clone returns an independent copy sharing the params, logger, metrics and validator.
func (a *Accumulator) Clone() *Accumulator {
	if a == nil {
		return nil
	}
	c := *a
	if a.value != nil {
		c.value = new(big.Int).Set(a.value)
	}
	return &c
}
