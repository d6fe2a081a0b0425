package zerocoin

import (
	"fmt"
	"math/big"
)

// AccumulatorWitness is an accumulator over every coin except element. Raising it to the
// element gives the full accumulator, which proves element's membership.
type AccumulatorWitness struct {
	params  *AccumulatorParams
	witness *Accumulator
	element *PublicCoin
}

// NewAccumulatorWitness starts a witness for element from a snapshot of checkpoint. The
// checkpoint must not already contain element.
func NewAccumulatorWitness(params *AccumulatorParams, checkpoint *Accumulator, element *PublicCoin) (*AccumulatorWitness, error) {
	if err := params.check(); err != nil {
		return nil, err
	}
	if checkpoint == nil || element == nil {
		return nil, fmt.Errorf("%w: witness needs a checkpoint and an element", ErrValidation)
	}
	if !checkpoint.params.Equal(params) {
		return nil, fmt.Errorf("%w: checkpoint uses other accumulator parameters", ErrConfiguration)
	}
	return &AccumulatorWitness{
		params:  params,
		witness: checkpoint.Clone(),
		element: element,
	}, nil
}

// AddElement folds c into the witness unless c is the witnessed element itself. Coins are
// compared by value, so a second coin equal to the element is skipped as well.
func (w *AccumulatorWitness) AddElement(c *PublicCoin) error {
	if c.Equals(w.element) {
		return nil
	}
	return w.witness.Accumulate(c)
}

// Verify reports whether target equals the witness with the element added. Nothing is
// reported to the accumulator's metrics.
func (w *AccumulatorWitness) Verify(target *Accumulator) bool {
	if w == nil || target == nil || w.witness.check() != nil {
		return false
	}
	if _, err := w.witness.admit(w.element); err != nil {
		return false
	}
	full := w.witness.Clone()
	full.raise(w.element.value)
	return full.Equals(target)
}

// Value returns a copy of the witness value.
func (w *AccumulatorWitness) Value() *big.Int { return w.witness.Value() }

// Element is the coin being witnessed.
func (w *AccumulatorWitness) Element() *PublicCoin { return w.element }

// Params returns the accumulator parameters.
func (w *AccumulatorWitness) Params() *AccumulatorParams { return w.params }
