// circuit.go - SNARK attestation of a MiMC Fiat-Shamir challenge.
//
// ChallengeCircuit proves that a transcript hashes to a challenge under MiMC. Both are
// public inputs: the transcript carries the commitments, the recomputed T values and both
// groups, so a verifier rebuilds it from the equality proof it holds and the attestation
// cannot be replayed for other commitments. The transcript is the field-element form
// produced by transcript.FieldElements, so the circuit is compiled for a fixed element count.

package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"zerocoin/internal/transcript"
)

type ChallengeCircuit struct {
	Transcript []frontend.Variable `gnark:",public"`
	Challenge  frontend.Variable   `gnark:",public"`
}

// NewChallengeCircuit returns a circuit shape for transcripts of n field elements.
func NewChallengeCircuit(n int) *ChallengeCircuit {
	return &ChallengeCircuit{Transcript: make([]frontend.Variable, n)}
}

func (c *ChallengeCircuit) Define(api frontend.API) error {
	hasher, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	hasher.Write(c.Transcript...)
	api.AssertIsEqual(c.Challenge, hasher.Sum())
	return nil
}

// Elements is the number of field elements a transcript of the given byte length occupies.
func Elements(transcriptLen int) int {
	return len(transcript.FieldElements(make([]byte, transcriptLen)))
}

// NewAssignment builds a full witness for an encoded transcript.
func NewAssignment(data []byte) (*ChallengeCircuit, error) {
	digest, err := transcript.MiMC.Sum(data)
	if err != nil {
		return nil, fmt.Errorf("failed to hash transcript: %w", err)
	}
	return newAssignment(data, new(big.Int).SetBytes(digest)), nil
}

// NewPublicAssignment builds the public witness claiming that data hashes to challenge.
// Every input is public, so it equals the full witness for a correct claim.
func NewPublicAssignment(data []byte, challenge *big.Int) *ChallengeCircuit {
	return newAssignment(data, new(big.Int).Set(challenge))
}

func newAssignment(data []byte, challenge *big.Int) *ChallengeCircuit {
	elems := transcript.FieldElements(data)
	a := &ChallengeCircuit{
		Transcript: make([]frontend.Variable, len(elems)),
		Challenge:  challenge,
	}
	for i, e := range elems {
		a.Transcript[i] = e
	}
	return a
}
