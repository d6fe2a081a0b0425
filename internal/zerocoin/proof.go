// proof.go - Non-interactive proof that two commitments hide the same value.
//
// Let m be the shared contents:
//
//	A  = g1^m  · h1^x  mod p1
//	B  = g2^m  · h2^y  mod p2
//	T1 = g1^r1 · h1^r2 mod p1
//	T2 = g2^r1 · h2^r3 mod p2
//
// The challenge c hashes (T1, T2, A, B, group1, group2) and the responses are
// S1 = r1 + m·c, S2 = r2 + x·c, S3 = r3 + y·c over the integers. The verifier recomputes
// T1 = A^-c · g1^S1 · h1^S2 and T2 = B^-c · g2^S1 · h2^S3 and checks the hash.
//
// Honest responses satisfy S2 < q1·2^256 and S3 < q2·2^256, and Verify rejects anything
// larger. Within that bound the responses stay malleable: h1 has order q1, so S2 + q1
// verifies as well as S2 (likewise S3 + q2). The proof is sound but not strongly
// unforgeable, so callers must not use its encoding as a unique identifier.

package zerocoin

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"zerocoin/internal/metrics"
	"zerocoin/internal/transcript"
)

// CommitmentEqualityProofDomain tags equality proof transcripts.
const CommitmentEqualityProofDomain = "COMMITMENT_EQUALITY_PROOF"

// CommitmentEqualityProof shows that two commitments, possibly under different groups, hide
// the same value without revealing it.
type CommitmentEqualityProof struct {
	ap, bp    *IntegerGroupParams
	challenge *big.Int
	s1        *big.Int
	s2        *big.Int
	s3        *big.Int
	hash      transcript.Hash

	logger  zerolog.Logger
	metrics metrics.Collector
}

// NewCommitmentEqualityProof proves that a (under ap) and b (under bp) share their contents.
// Commitments with different contents, or made under other groups, fail with ErrValidation.
func NewCommitmentEqualityProof(rnd io.Reader, ap, bp *IntegerGroupParams, a, b *Commitment, opts ...Option) (*CommitmentEqualityProof, error) {
	o := newOptions(opts)
	if err := ap.check(); err != nil {
		return nil, err
	}
	if err := bp.check(); err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: both commitments are required", ErrValidation)
	}
	if !a.params.Equal(ap) || !b.params.Equal(bp) {
		return nil, fmt.Errorf("%w: commitments were not made under the given groups", ErrValidation)
	}
	if a.contents.Cmp(b.contents) != 0 {
		return nil, fmt.Errorf("%w: both commitments must contain the same value", ErrValidation)
	}

	start := time.Now()

	// r1 comes from the smaller of the two orders so it fits in both groups.
	bound := ap.order
	if bp.order.Cmp(bound) < 0 {
		bound = bp.order
	}
	r1, err := randomBelow(rnd, bound)
	if err != nil {
		return nil, err
	}
	t1, err := NewCommitment(rnd, ap, r1)
	if err != nil {
		return nil, err
	}
	t2, err := NewCommitment(rnd, bp, r1)
	if err != nil {
		return nil, err
	}

	p := &CommitmentEqualityProof{
		ap:      ap,
		bp:      bp,
		hash:    o.hash,
		logger:  o.logger,
		metrics: o.metrics,
	}
	c, err := p.transcript(t1.commitmentValue, t2.commitmentValue, a.commitmentValue, b.commitmentValue).Challenge(p.hash)
	if err != nil {
		return nil, err
	}
	p.challenge = c
	p.s1 = response(r1, a.contents, c)
	p.s2 = response(t1.randomness, a.randomness, c)
	p.s3 = response(t2.randomness, b.randomness, c)

	elapsed := time.Since(start)
	o.metrics.ProofCreated(elapsed)
	o.logger.Debug().
		Str("hash", p.hash.String()).
		Dur("elapsed", elapsed).
		Msg("built commitment equality proof")
	return p, nil
}

// RebuildCommitmentEqualityProof reassembles a proof received from elsewhere. Only the
// groups are checked here; malformed responses make Verify return false.
func RebuildCommitmentEqualityProof(ap, bp *IntegerGroupParams, challenge, s1, s2, s3 *big.Int, opts ...Option) (*CommitmentEqualityProof, error) {
	o := newOptions(opts)
	if err := ap.check(); err != nil {
		return nil, err
	}
	if err := bp.check(); err != nil {
		return nil, err
	}
	if challenge == nil || s1 == nil || s2 == nil || s3 == nil {
		return nil, fmt.Errorf("%w: proof is missing a challenge or response", ErrValidation)
	}
	return &CommitmentEqualityProof{
		ap:        ap,
		bp:        bp,
		challenge: new(big.Int).Set(challenge),
		s1:        new(big.Int).Set(s1),
		s2:        new(big.Int).Set(s2),
		s3:        new(big.Int).Set(s3),
		hash:      o.hash,
		logger:    o.logger,
		metrics:   o.metrics,
	}, nil
}

// response computes k + secret·c without modular reduction.
func response(k, secret, c *big.Int) *big.Int {
	s := new(big.Int).Mul(secret, c)
	return s.Add(s, k)
}

func (p *CommitmentEqualityProof) transcript(t1, t2, a, b *big.Int) *transcript.Transcript {
	return transcript.New(CommitmentEqualityProofDomain,
		t1, t2, a, b, p.ap.transcriptGroup(), p.bp.transcriptGroup())
}

// Verify reports whether the proof shows that A and B commit to the same value. A false
// result covers both a false claim and a malformed proof.
func (p *CommitmentEqualityProof) Verify(A, B *big.Int) bool {
	tr, ok := p.verifierTranscript(A, B)
	if ok {
		c, err := tr.Challenge(p.hash)
		ok = err == nil && c.Cmp(p.challenge) == 0
	}
	if p != nil && p.metrics != nil {
		p.metrics.ProofVerified(ok)
		p.logger.Debug().Bool("valid", ok).Msg("verified commitment equality proof")
	}
	return ok
}

// Transcript returns the encoded transcript a verifier hashes for A and B. With the MiMC
// challenge hash it is the preimage the challenge circuit attests to.
func (p *CommitmentEqualityProof) Transcript(A, B *big.Int) ([]byte, error) {
	tr, ok := p.verifierTranscript(A, B)
	if !ok {
		return nil, fmt.Errorf("%w: malformed commitment equality proof", ErrValidation)
	}
	return tr.Bytes()
}

func (p *CommitmentEqualityProof) verifierTranscript(A, B *big.Int) (*transcript.Transcript, bool) {
	if p == nil || A == nil || B == nil || !p.ap.Initialized() || !p.bp.Initialized() {
		return nil, false
	}
	if p.challenge == nil || p.s1 == nil || p.s2 == nil || p.s3 == nil {
		return nil, false
	}
	if p.challenge.Sign() < 0 || p.challenge.BitLen() > transcript.OutputBits {
		return nil, false
	}
	if p.s1.Sign() < 0 || p.s2.Sign() < 0 || p.s3.Sign() < 0 {
		return nil, false
	}
	if !withinResponseBound(p.s2, p.ap.order) || !withinResponseBound(p.s3, p.bp.order) {
		return nil, false
	}
	t1, ok := recomputeCommitment(p.ap, A, p.s1, p.s2, p.challenge)
	if !ok {
		return nil, false
	}
	t2, ok := recomputeCommitment(p.bp, B, p.s1, p.s3, p.challenge)
	if !ok {
		return nil, false
	}
	return p.transcript(t1, t2, A, B), true
}

// withinResponseBound reports s < order·2^OutputBits. Every randomness response an honest
// prover produces is below that bound.
func withinResponseBound(s, order *big.Int) bool {
	bound := new(big.Int).Lsh(order, transcript.OutputBits)
	return s.Cmp(bound) < 0
}

// recomputeCommitment returns X^-c · g^sm · h^sr mod p, or false when X is not invertible.
func recomputeCommitment(params *IntegerGroupParams, X, sm, sr, c *big.Int) (*big.Int, bool) {
	mod := params.modulus
	xc := new(big.Int).Exp(X, c, mod)
	inv := new(big.Int).ModInverse(xc, mod)
	if inv == nil {
		return nil, false
	}
	t := new(big.Int).Exp(params.g, sm, mod)
	t.Mul(t, new(big.Int).Exp(params.h, sr, mod))
	t.Mod(t, mod)
	t.Mul(t, inv)
	return t.Mod(t, mod), true
}

// Challenge returns a copy of c.
func (p *CommitmentEqualityProof) Challenge() *big.Int { return new(big.Int).Set(p.challenge) }

// S1 returns a copy of the response for the shared value.
func (p *CommitmentEqualityProof) S1() *big.Int { return new(big.Int).Set(p.s1) }

// S2 returns a copy of the response for the first commitment's randomness.
func (p *CommitmentEqualityProof) S2() *big.Int { return new(big.Int).Set(p.s2) }

// S3 returns a copy of the response for the second commitment's randomness.
func (p *CommitmentEqualityProof) S3() *big.Int { return new(big.Int).Set(p.s3) }

// Hash is the challenge hash the proof was built with.
func (p *CommitmentEqualityProof) Hash() transcript.Hash { return p.hash }

// GroupA is the group of the first commitment.
func (p *CommitmentEqualityProof) GroupA() *IntegerGroupParams { return p.ap }

// GroupB is the group of the second commitment.
func (p *CommitmentEqualityProof) GroupB() *IntegerGroupParams { return p.bp }
