// Package zerocoin implements the accumulator and commitment engine of a Zerocoin-style
// anonymous coin scheme.
//
// Overview:
//   - Coins are Pedersen commitments c = g^s·h^r mod p to a random serial number s, kept only
//     when c is a prime inside the accumulator's coin range
//   - Coins of one denomination are folded into an RSA accumulator v = v^c mod N
//   - An AccumulatorWitness tracks the accumulator over every coin but one, proving that coin's
//     membership without revealing the others
//   - CommitmentEqualityProof is a Fiat-Shamir Sigma proof that two commitments under different
//     groups hide the same value
//
// Security Model:
//   - Pedersen commitments hide perfectly and bind under discrete log in the order-q subgroup
//   - The accumulator is one-way under the strong RSA assumption; N must be generated so that
//     nobody knows its factorization
//   - Challenges are hashes of canonically encoded transcripts (see internal/transcript)
//   - All secret randomness comes from an explicit io.Reader; nil selects crypto/rand
//
// Usage:
//   - Build or load *Params once (NewParams, ParamsConfig.Build, GenerateParams) and share them
//   - MintCoin / MintCoins to create coins, NewAccumulator + Accumulate to publish them,
//     NewAccumulatorWitness + AddElement + Verify to prove membership
//   - NewCommitment + NewCommitmentEqualityProof + Verify for the equality proof
//
// Parameter objects are immutable and safe for concurrent use. Accumulator and
// AccumulatorWitness are not; callers serialize updates to a given instance.
//
// References:
//   - Miers, Garman, Green, Rubin: Zerocoin: Anonymous Distributed E-Cash from Bitcoin (2013)
package zerocoin
