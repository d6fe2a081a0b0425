package zerocoin

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/go-multierror"
)

// GroupConfig is the serialized form of IntegerGroupParams. Integers are decimal strings.
type GroupConfig struct {
	Modulus string `json:"modulus"`
	G       string `json:"g"`
	H       string `json:"h"`
	Order   string `json:"order"`
}

// AccumulatorConfig is the serialized form of AccumulatorParams.
type AccumulatorConfig struct {
	Modulus         string `json:"modulus"`
	Base            string `json:"base"`
	MinCoinValue    string `json:"min_coin_value"`
	MaxCoinValue    string `json:"max_coin_value"`
	ConfidenceLevel int    `json:"confidence_level"`
}

// ParamsConfig is the serialized form of Params.
type ParamsConfig struct {
	CoinCommitmentGroup            GroupConfig       `json:"coin_commitment_group"`
	SerialNumberSoKCommitmentGroup *GroupConfig      `json:"serial_number_sok_commitment_group,omitempty"`
	AccumulatorPoKCommitmentGroup  *GroupConfig      `json:"accumulator_pok_commitment_group,omitempty"`
	Accumulator                    AccumulatorConfig `json:"accumulator"`
}

type decoder struct {
	errs *multierror.Error
}

func (d *decoder) bigInt(name, s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		d.errs = multierror.Append(d.errs, fmt.Errorf("%s: %q is not a decimal integer", name, s))
		return nil
	}
	return v
}

// Build parses and validates the configuration.
func (g GroupConfig) Build() (*IntegerGroupParams, error) {
	var d decoder
	p, gen, h, q := d.bigInt("modulus", g.Modulus), d.bigInt("g", g.G), d.bigInt("h", g.H), d.bigInt("order", g.Order)
	if err := d.errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return NewIntegerGroupParams(p, gen, h, q)
}

// Build parses and validates the configuration.
func (a AccumulatorConfig) Build() (*AccumulatorParams, error) {
	var d decoder
	n := d.bigInt("modulus", a.Modulus)
	base := d.bigInt("base", a.Base)
	minValue := d.bigInt("min_coin_value", a.MinCoinValue)
	maxValue := d.bigInt("max_coin_value", a.MaxCoinValue)
	if err := d.errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	confidence := a.ConfidenceLevel
	if confidence == 0 {
		confidence = DefaultConfidenceLevel
	}
	return NewAccumulatorParams(n, base, minValue, maxValue, confidence)
}

// Build parses every group and the accumulator and checks them against each other.
func (c ParamsConfig) Build() (*Params, error) {
	coinGroup, err := c.CoinCommitmentGroup.Build()
	if err != nil {
		return nil, fmt.Errorf("coin commitment group: %w", err)
	}
	acc, err := c.Accumulator.Build()
	if err != nil {
		return nil, fmt.Errorf("accumulator: %w", err)
	}
	var opts []ParamsOption
	if c.SerialNumberSoKCommitmentGroup != nil {
		g, err := c.SerialNumberSoKCommitmentGroup.Build()
		if err != nil {
			return nil, fmt.Errorf("serial number SoK group: %w", err)
		}
		opts = append(opts, WithSerialNumberSoKGroup(g))
	}
	if c.AccumulatorPoKCommitmentGroup != nil {
		g, err := c.AccumulatorPoKCommitmentGroup.Build()
		if err != nil {
			return nil, fmt.Errorf("accumulator PoK group: %w", err)
		}
		opts = append(opts, WithAccumulatorPoKGroup(g))
	}
	return NewParams(coinGroup, acc, opts...)
}

// Config returns the serialized form of p.
func (p *IntegerGroupParams) Config() GroupConfig {
	return GroupConfig{
		Modulus: p.modulus.String(),
		G:       p.g.String(),
		H:       p.h.String(),
		Order:   p.order.String(),
	}
}

// Config returns the serialized form of p.
func (p *AccumulatorParams) Config() AccumulatorConfig {
	return AccumulatorConfig{
		Modulus:         p.modulus.String(),
		Base:            p.base.String(),
		MinCoinValue:    p.minCoinValue.String(),
		MaxCoinValue:    p.maxCoinValue.String(),
		ConfidenceLevel: p.confidence,
	}
}

// Config returns the serialized form of p.
func (p *Params) Config() ParamsConfig {
	c := ParamsConfig{
		CoinCommitmentGroup: p.coinCommitmentGroup.Config(),
		Accumulator:         p.accumulatorParams.Config(),
	}
	if g := p.serialNumberSoKCommitmentGroup; g != nil {
		gc := g.Config()
		c.SerialNumberSoKCommitmentGroup = &gc
	}
	if g := p.accumulatorPoKCommitmentGroup; g != nil {
		gc := g.Config()
		c.AccumulatorPoKCommitmentGroup = &gc
	}
	return c
}
