package circuit

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Compile builds the constraint system for transcripts of n field elements.
func Compile(n int) (constraint.ConstraintSystem, error) {
	if n < 1 {
		return nil, fmt.Errorf("transcript must have at least one element, got %d", n)
	}
	ccs, err := frontend.Compile(Curve.ScalarField(), r1cs.NewBuilder, NewChallengeCircuit(n))
	if err != nil {
		return nil, fmt.Errorf("circuit compilation failed: %w", err)
	}
	return ccs, nil
}

// Prove attests that data hashes to its MiMC challenge and returns the serialized proof
// together with that challenge.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, data []byte) ([]byte, *big.Int, error) {
	assignment, err := NewAssignment(data)
	if err != nil {
		return nil, nil, err
	}
	w, err := frontend.NewWitness(assignment, Curve.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("witness creation failed: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return nil, nil, fmt.Errorf("proof generation failed: %w", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, nil, fmt.Errorf("proof marshaling failed: %w", err)
	}
	return buf.Bytes(), new(big.Int).Set(assignment.Challenge.(*big.Int)), nil
}

// Verify checks a serialized proof that data hashes to challenge.
func Verify(vk groth16.VerifyingKey, proofBytes, data []byte, challenge *big.Int) error {
	if challenge == nil {
		return errors.New("challenge is missing")
	}
	w, err := frontend.NewWitness(NewPublicAssignment(data, challenge), Curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("public witness creation failed: %w", err)
	}
	proof := groth16.NewProof(Curve)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("proof unmarshaling failed: %w", err)
	}
	if err := groth16.Verify(proof, vk, w); err != nil {
		return fmt.Errorf("proof verification failed: %w", err)
	}
	return nil
}
