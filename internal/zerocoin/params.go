// params.go - Group, accumulator and scheme parameters.
//
// Parameters are validated once, in their constructor, and are immutable afterwards: fields
// are unexported and getters hand out copies. A zero value is "not initialized" and every
// operation refuses it with ErrConfiguration.

package zerocoin

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-multierror"

	"zerocoin/internal/transcript"
)

// DefaultConfidenceLevel is the Miller-Rabin round count used for coin primality.
const DefaultConfidenceLevel = 80

// groupConfidence is the Miller-Rabin round count used when validating group moduli.
const groupConfidence = 40

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// IntegerGroupParams describes the order-q subgroup of Z_p^* with generators g and h, used
// for Pedersen commitments.
type IntegerGroupParams struct {
	modulus     *big.Int
	g           *big.Int
	h           *big.Int
	order       *big.Int
	initialized bool
}

// NewIntegerGroupParams validates and copies a group description. p and q must be prime,
// q must divide p-1, and g, h must be distinct elements of order q.
func NewIntegerGroupParams(modulus, g, h, order *big.Int) (*IntegerGroupParams, error) {
	var result *multierror.Error
	for name, v := range map[string]*big.Int{"modulus": modulus, "g": g, "h": h, "order": order} {
		if v == nil {
			result = multierror.Append(result, fmt.Errorf("group %s is missing", name))
		}
	}
	if result != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, result.ErrorOrNil())
	}

	if modulus.Cmp(big.NewInt(3)) < 0 || !modulus.ProbablyPrime(groupConfidence) {
		result = multierror.Append(result, errors.New("group modulus must be an odd prime"))
	}
	if order.Cmp(bigTwo) < 0 || !order.ProbablyPrime(groupConfidence) {
		result = multierror.Append(result, errors.New("group order must be prime"))
	} else if new(big.Int).Mod(new(big.Int).Sub(modulus, bigOne), order).Sign() != 0 {
		result = multierror.Append(result, errors.New("group order must divide modulus-1"))
	}
	for name, gen := range map[string]*big.Int{"g": g, "h": h} {
		if gen.Cmp(bigOne) <= 0 || gen.Cmp(modulus) >= 0 {
			result = multierror.Append(result, fmt.Errorf("generator %s must lie in (1, modulus)", name))
			continue
		}
		if new(big.Int).Exp(gen, order, modulus).Cmp(bigOne) != 0 {
			result = multierror.Append(result, fmt.Errorf("generator %s does not have the group order", name))
		}
	}
	if g.Cmp(h) == 0 {
		result = multierror.Append(result, errors.New("generators g and h must differ"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return &IntegerGroupParams{
		modulus:     new(big.Int).Set(modulus),
		g:           new(big.Int).Set(g),
		h:           new(big.Int).Set(h),
		order:       new(big.Int).Set(order),
		initialized: true,
	}, nil
}

// Modulus returns a copy of p.
func (p *IntegerGroupParams) Modulus() *big.Int { return new(big.Int).Set(p.modulus) }

// G returns a copy of the first generator.
func (p *IntegerGroupParams) G() *big.Int { return new(big.Int).Set(p.g) }

// H returns a copy of the second generator.
func (p *IntegerGroupParams) H() *big.Int { return new(big.Int).Set(p.h) }

// Order returns a copy of q.
func (p *IntegerGroupParams) Order() *big.Int { return new(big.Int).Set(p.order) }

// Initialized reports whether p came out of NewIntegerGroupParams.
func (p *IntegerGroupParams) Initialized() bool { return p != nil && p.initialized }

// Equal reports whether both describe the same group.
func (p *IntegerGroupParams) Equal(o *IntegerGroupParams) bool {
	if p == o {
		return true
	}
	if !p.Initialized() || !o.Initialized() {
		return false
	}
	return p.modulus.Cmp(o.modulus) == 0 && p.g.Cmp(o.g) == 0 &&
		p.h.Cmp(o.h) == 0 && p.order.Cmp(o.order) == 0
}

func (p *IntegerGroupParams) check() error {
	if !p.Initialized() {
		return fmt.Errorf("%w: integer group parameters are not initialized", ErrConfiguration)
	}
	return nil
}

func (p *IntegerGroupParams) transcriptGroup() transcript.Group {
	return transcript.Group{Modulus: p.modulus, G: p.g, H: p.h, Order: p.order}
}

// AccumulatorParams describes the RSA accumulator and the range coins must fall in.
type AccumulatorParams struct {
	modulus      *big.Int
	base         *big.Int
	minCoinValue *big.Int
	maxCoinValue *big.Int
	confidence   int
	initialized  bool
}

// NewAccumulatorParams validates and copies accumulator parameters. base must be a unit
// modulo N other than 1, 0 <= min < max, and confidence is the primality round count.
func NewAccumulatorParams(modulus, base, minCoinValue, maxCoinValue *big.Int, confidence int) (*AccumulatorParams, error) {
	var result *multierror.Error
	for name, v := range map[string]*big.Int{
		"modulus": modulus, "base": base, "min coin value": minCoinValue, "max coin value": maxCoinValue,
	} {
		if v == nil {
			result = multierror.Append(result, fmt.Errorf("accumulator %s is missing", name))
		}
	}
	if result != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, result.ErrorOrNil())
	}

	if modulus.Cmp(big.NewInt(3)) < 0 {
		result = multierror.Append(result, errors.New("accumulator modulus must be at least 3"))
	} else if base.Cmp(bigOne) <= 0 || base.Cmp(modulus) >= 0 {
		result = multierror.Append(result, errors.New("accumulator base must lie in (1, modulus)"))
	} else if new(big.Int).GCD(nil, nil, base, modulus).Cmp(bigOne) != 0 {
		result = multierror.Append(result, errors.New("accumulator base must be coprime to the modulus"))
	}
	if minCoinValue.Sign() < 0 {
		result = multierror.Append(result, errors.New("min coin value must not be negative"))
	}
	if minCoinValue.Cmp(maxCoinValue) >= 0 {
		result = multierror.Append(result, errors.New("min coin value must be below max coin value"))
	}
	if confidence <= 0 {
		result = multierror.Append(result, errors.New("confidence level must be positive"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return &AccumulatorParams{
		modulus:      new(big.Int).Set(modulus),
		base:         new(big.Int).Set(base),
		minCoinValue: new(big.Int).Set(minCoinValue),
		maxCoinValue: new(big.Int).Set(maxCoinValue),
		confidence:   confidence,
		initialized:  true,
	}, nil
}

// Modulus returns a copy of N.
func (p *AccumulatorParams) Modulus() *big.Int { return new(big.Int).Set(p.modulus) }

// Base returns a copy of the initial accumulator value.
func (p *AccumulatorParams) Base() *big.Int { return new(big.Int).Set(p.base) }

// MinCoinValue returns a copy of the exclusive lower bound on coin values.
func (p *AccumulatorParams) MinCoinValue() *big.Int { return new(big.Int).Set(p.minCoinValue) }

// MaxCoinValue returns a copy of the exclusive upper bound on coin values.
func (p *AccumulatorParams) MaxCoinValue() *big.Int { return new(big.Int).Set(p.maxCoinValue) }

// ConfidenceLevel is the primality round count applied to coin values.
func (p *AccumulatorParams) ConfidenceLevel() int { return p.confidence }

// Initialized reports whether p came out of NewAccumulatorParams.
func (p *AccumulatorParams) Initialized() bool { return p != nil && p.initialized }

// Equal reports whether both describe the same accumulator.
func (p *AccumulatorParams) Equal(o *AccumulatorParams) bool {
	if p == o {
		return true
	}
	if !p.Initialized() || !o.Initialized() {
		return false
	}
	return p.modulus.Cmp(o.modulus) == 0 && p.base.Cmp(o.base) == 0 &&
		p.minCoinValue.Cmp(o.minCoinValue) == 0 && p.maxCoinValue.Cmp(o.maxCoinValue) == 0 &&
		p.confidence == o.confidence
}

func (p *AccumulatorParams) check() error {
	if !p.Initialized() {
		return fmt.Errorf("%w: accumulator parameters are not initialized", ErrConfiguration)
	}
	return nil
}

// inRange reports min < v < max.
func (p *AccumulatorParams) inRange(v *big.Int) bool {
	return p.minCoinValue.Cmp(v) < 0 && v.Cmp(p.maxCoinValue) < 0
}

// acceptsCoinValue reports min < v < max and v prime.
func (p *AccumulatorParams) acceptsCoinValue(v *big.Int) bool {
	return p.inRange(v) && v.ProbablyPrime(p.confidence)
}

// Params bundles everything coins need: the coin commitment group, the accumulator and the
// two optional groups used when coin values are re-committed for equality proofs.
type Params struct {
	coinCommitmentGroup            *IntegerGroupParams
	serialNumberSoKCommitmentGroup *IntegerGroupParams
	accumulatorPoKCommitmentGroup  *IntegerGroupParams
	accumulatorParams              *AccumulatorParams
	initialized                    bool
}

// ParamsOption adds an optional group to NewParams.
type ParamsOption func(*Params)

// WithSerialNumberSoKGroup sets the group whose order is the coin commitment modulus, so
// a coin value can be committed to in it.
func WithSerialNumberSoKGroup(g *IntegerGroupParams) ParamsOption {
	return func(p *Params) { p.serialNumberSoKCommitmentGroup = g }
}

// WithAccumulatorPoKGroup sets the group whose order exceeds the max coin value.
func WithAccumulatorPoKGroup(g *IntegerGroupParams) ParamsOption {
	return func(p *Params) { p.accumulatorPoKCommitmentGroup = g }
}

// NewParams checks that the parts are initialized and consistent with each other.
func NewParams(coinGroup *IntegerGroupParams, acc *AccumulatorParams, opts ...ParamsOption) (*Params, error) {
	p := &Params{coinCommitmentGroup: coinGroup, accumulatorParams: acc}
	for _, opt := range opts {
		opt(p)
	}

	var result *multierror.Error
	if err := coinGroup.check(); err != nil {
		result = multierror.Append(result, fmt.Errorf("coin commitment group: %w", err))
	}
	if err := acc.check(); err != nil {
		result = multierror.Append(result, err)
	}
	if result == nil && coinGroup.modulus.Cmp(acc.minCoinValue) <= 0 {
		result = multierror.Append(result, errors.New("coin commitment modulus must exceed the min coin value"))
	}
	if g := p.serialNumberSoKCommitmentGroup; g != nil {
		if err := g.check(); err != nil {
			result = multierror.Append(result, fmt.Errorf("serial number SoK group: %w", err))
		} else if coinGroup.Initialized() && g.order.Cmp(coinGroup.modulus) != 0 {
			result = multierror.Append(result, errors.New("serial number SoK group order must equal the coin commitment modulus"))
		}
	}
	if g := p.accumulatorPoKCommitmentGroup; g != nil {
		if err := g.check(); err != nil {
			result = multierror.Append(result, fmt.Errorf("accumulator PoK group: %w", err))
		} else if acc.Initialized() && g.order.Cmp(acc.maxCoinValue) <= 0 {
			result = multierror.Append(result, errors.New("accumulator PoK group order must exceed the max coin value"))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	p.initialized = true
	return p, nil
}

// CoinCommitmentGroup is the group coins are committed in.
func (p *Params) CoinCommitmentGroup() *IntegerGroupParams { return p.coinCommitmentGroup }

// SerialNumberSoKCommitmentGroup may be nil.
func (p *Params) SerialNumberSoKCommitmentGroup() *IntegerGroupParams {
	return p.serialNumberSoKCommitmentGroup
}

// AccumulatorPoKCommitmentGroup may be nil.
func (p *Params) AccumulatorPoKCommitmentGroup() *IntegerGroupParams {
	return p.accumulatorPoKCommitmentGroup
}

// AccumulatorParams returns the accumulator description.
func (p *Params) AccumulatorParams() *AccumulatorParams { return p.accumulatorParams }

// Initialized reports whether p came out of NewParams.
func (p *Params) Initialized() bool { return p != nil && p.initialized }

func (p *Params) check() error {
	if !p.Initialized() {
		return fmt.Errorf("%w: params are not initialized", ErrConfiguration)
	}
	return nil
}
