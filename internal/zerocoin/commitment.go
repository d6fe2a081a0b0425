// commitment.go - Pedersen commitments over an integer group.
//
// commitmentValue = g^m · h^r mod p with r drawn uniformly from [0, q). The contents m and
// the randomness r are secret; they leave the Commitment only as proof inputs.

package zerocoin

import (
	"fmt"
	"io"
	"math/big"
)

// Commitment is a Pedersen commitment together with its opening.
type Commitment struct {
	params          *IntegerGroupParams
	contents        *big.Int
	randomness      *big.Int
	commitmentValue *big.Int
}

// NewCommitment commits to value under params with fresh randomness from rnd.
func NewCommitment(rnd io.Reader, params *IntegerGroupParams, value *big.Int) (*Commitment, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("%w: commitment value is missing", ErrValidation)
	}
	r, err := randomBelow(rnd, params.order)
	if err != nil {
		return nil, err
	}
	return newCommitment(params, value, r), nil
}

func newCommitment(params *IntegerGroupParams, value, r *big.Int) *Commitment {
	v := new(big.Int).Exp(params.g, value, params.modulus)
	v.Mul(v, new(big.Int).Exp(params.h, r, params.modulus))
	v.Mod(v, params.modulus)
	return &Commitment{
		params:          params,
		contents:        new(big.Int).Set(value),
		randomness:      r,
		commitmentValue: v,
	}
}

// CommitmentValue returns the public commitment.
func (c *Commitment) CommitmentValue() *big.Int { return new(big.Int).Set(c.commitmentValue) }

// Randomness returns the secret blinding factor r.
func (c *Commitment) Randomness() *big.Int { return new(big.Int).Set(c.randomness) }

// Contents returns the secret committed value m.
func (c *Commitment) Contents() *big.Int { return new(big.Int).Set(c.contents) }

// Params returns the group the commitment lives in.
func (c *Commitment) Params() *IntegerGroupParams { return c.params }
