package zerocoin

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerocoin/internal/metrics"
	"zerocoin/internal/transcript"
)

type equalityFixture struct {
	ap, bp *IntegerGroupParams
	a, b   *Commitment
}

// newEqualityFixture commits to a minted coin's value in the serial number SoK group and
// in the accumulator PoK group.
func newEqualityFixture(t *testing.T, seed string) equalityFixture {
	t.Helper()
	params, coins := fixture(t)
	ap := params.SerialNumberSoKCommitmentGroup()
	bp := params.AccumulatorPoKCommitmentGroup()
	value := coins[0].PublicCoin().Value()

	rnd := testReader(seed)
	a, err := NewCommitment(rnd, ap, value)
	require.NoError(t, err)
	b, err := NewCommitment(rnd, bp, value)
	require.NoError(t, err)
	return equalityFixture{ap: ap, bp: bp, a: a, b: b}
}

func TestCommitmentEqualityProof(t *testing.T) {
	for _, h := range []transcript.Hash{transcript.SHA256d, transcript.SHA3_256, transcript.MiMC} {
		t.Run(h.String(), func(t *testing.T) {
			f := newEqualityFixture(t, "equality "+h.String())
			proof, err := NewCommitmentEqualityProof(testReader("proof"), f.ap, f.bp, f.a, f.b, WithChallengeHash(h))
			require.NoError(t, err)
			assert.Equal(t, h, proof.Hash())
			assert.True(t, proof.Verify(f.a.CommitmentValue(), f.b.CommitmentValue()))

			bound := new(big.Int).Lsh(big.NewInt(1), transcript.OutputBits)
			assert.Equal(t, -1, proof.Challenge().Cmp(bound))

			// a verifier built from the wire values agrees
			rebuilt, err := RebuildCommitmentEqualityProof(f.ap, f.bp,
				proof.Challenge(), proof.S1(), proof.S2(), proof.S3(), WithChallengeHash(h))
			require.NoError(t, err)
			assert.True(t, rebuilt.Verify(f.a.CommitmentValue(), f.b.CommitmentValue()))
		})
	}
}

func TestCommitmentEqualityProofTampering(t *testing.T) {
	f := newEqualityFixture(t, "tamper")
	proof, err := NewCommitmentEqualityProof(testReader("tamper proof"), f.ap, f.bp, f.a, f.b)
	require.NoError(t, err)

	one := big.NewInt(1)
	plusOne := func(v *big.Int) *big.Int { return v.Add(v, one) }
	A, B := f.a.CommitmentValue(), f.b.CommitmentValue()

	tests := []struct {
		name          string
		c, s1, s2, s3 *big.Int
		A, B          *big.Int
	}{
		{"challenge", plusOne(proof.Challenge()), proof.S1(), proof.S2(), proof.S3(), A, B},
		{"S1", proof.Challenge(), plusOne(proof.S1()), proof.S2(), proof.S3(), A, B},
		{"S2", proof.Challenge(), proof.S1(), plusOne(proof.S2()), proof.S3(), A, B},
		{"S3", proof.Challenge(), proof.S1(), proof.S2(), plusOne(proof.S3()), A, B},
		{"A", proof.Challenge(), proof.S1(), proof.S2(), proof.S3(), plusOne(f.a.CommitmentValue()), B},
		{"B", proof.Challenge(), proof.S1(), proof.S2(), proof.S3(), A, plusOne(f.b.CommitmentValue())},
		{"negative response", proof.Challenge(), new(big.Int).Neg(proof.S1()), proof.S2(), proof.S3(), A, B},
		{"oversized challenge", new(big.Int).Lsh(one, transcript.OutputBits), proof.S1(), proof.S2(), proof.S3(), A, B},
		{"non-invertible A", proof.Challenge(), proof.S1(), proof.S2(), proof.S3(), new(big.Int), B},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := RebuildCommitmentEqualityProof(f.ap, f.bp, tt.c, tt.s1, tt.s2, tt.s3)
			require.NoError(t, err)
			assert.False(t, p.Verify(tt.A, tt.B))
		})
	}

	assert.True(t, proof.Verify(A, B), "tampering must not affect the original proof")
	assert.False(t, proof.Verify(nil, B))
}

func TestCommitmentEqualityProofWrongHash(t *testing.T) {
	f := newEqualityFixture(t, "wrong hash")
	proof, err := NewCommitmentEqualityProof(testReader("wrong hash proof"), f.ap, f.bp, f.a, f.b)
	require.NoError(t, err)

	p, err := RebuildCommitmentEqualityProof(f.ap, f.bp, proof.Challenge(), proof.S1(), proof.S2(), proof.S3(),
		WithChallengeHash(transcript.SHA3_256))
	require.NoError(t, err)
	assert.False(t, p.Verify(f.a.CommitmentValue(), f.b.CommitmentValue()))
}

func TestCommitmentEqualityProofRejectsDifferentContents(t *testing.T) {
	f := newEqualityFixture(t, "different")
	other, err := NewCommitment(testReader("other"), f.bp, new(big.Int).Add(f.a.Contents(), big.NewInt(2)))
	require.NoError(t, err)

	_, err = NewCommitmentEqualityProof(nil, f.ap, f.bp, f.a, other)
	require.ErrorIs(t, err, ErrValidation)

	// commitments swapped between groups
	_, err = NewCommitmentEqualityProof(nil, f.ap, f.bp, f.b, f.a)
	require.ErrorIs(t, err, ErrValidation)

	_, err = NewCommitmentEqualityProof(nil, nil, f.bp, f.a, f.b)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestCommitmentEqualityProofSmallGroups(t *testing.T) {
	// q = 11 divides both 22 and 66
	ap := smallGroup(t)
	bp, err := NewIntegerGroupParams(big.NewInt(67), big.NewInt(9), big.NewInt(14), big.NewInt(11))
	require.NoError(t, err)

	m := big.NewInt(7)
	a := newCommitment(ap, m, big.NewInt(4))
	b := newCommitment(bp, m, big.NewInt(9))
	proof, err := NewCommitmentEqualityProof(testReader("small"), ap, bp, a, b)
	require.NoError(t, err)
	assert.True(t, proof.Verify(a.CommitmentValue(), b.CommitmentValue()))
	assert.Same(t, ap, proof.GroupA())
	assert.Same(t, bp, proof.GroupB())
}

func TestCommitmentEqualityProofTranscript(t *testing.T) {
	f := newEqualityFixture(t, "transcript")
	proof, err := NewCommitmentEqualityProof(testReader("transcript proof"), f.ap, f.bp, f.a, f.b,
		WithChallengeHash(transcript.MiMC))
	require.NoError(t, err)

	data, err := proof.Transcript(f.a.CommitmentValue(), f.b.CommitmentValue())
	require.NoError(t, err)
	digest, err := transcript.MiMC.Sum(data)
	require.NoError(t, err)
	assert.Equal(t, 0, new(big.Int).SetBytes(digest).Cmp(proof.Challenge()))

	bad, err := RebuildCommitmentEqualityProof(f.ap, f.bp, proof.Challenge(),
		new(big.Int).Neg(proof.S1()), proof.S2(), proof.S3())
	require.NoError(t, err)
	_, err = bad.Transcript(f.a.CommitmentValue(), f.b.CommitmentValue())
	require.ErrorIs(t, err, ErrValidation)
}

func TestCommitmentEqualityProofMetrics(t *testing.T) {
	f := newEqualityFixture(t, "metrics")
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	proof, err := NewCommitmentEqualityProof(testReader("metrics proof"), f.ap, f.bp, f.a, f.b, WithMetrics(collector))
	require.NoError(t, err)
	A, B := f.a.CommitmentValue(), f.b.CommitmentValue()
	require.True(t, proof.Verify(A, B))
	require.False(t, proof.Verify(B, A))

	summary, err := metrics.Summary(reg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, summary["zerocoin_proof_generation_seconds_count"])
	assert.Equal(t, 1.0, summary[`zerocoin_proof_verifications_total{result="valid"}`])
	assert.Equal(t, 1.0, summary[`zerocoin_proof_verifications_total{result="invalid"}`])
}

func TestCommitmentEqualityProofZeroValue(t *testing.T) {
	A, B := big.NewInt(1), big.NewInt(1)

	var p CommitmentEqualityProof
	assert.NotPanics(t, func() { assert.False(t, p.Verify(A, B)) })
	assert.False(t, new(CommitmentEqualityProof).Verify(A, B))

	var nilProof *CommitmentEqualityProof
	assert.False(t, nilProof.Verify(A, B))
}

func TestCommitmentEqualityProofResponseBound(t *testing.T) {
	ap := smallGroup(t)
	bp, err := NewIntegerGroupParams(big.NewInt(67), big.NewInt(9), big.NewInt(14), big.NewInt(11))
	require.NoError(t, err)

	m := big.NewInt(7)
	a := newCommitment(ap, m, big.NewInt(4))
	b := newCommitment(bp, m, big.NewInt(9))
	proof, err := NewCommitmentEqualityProof(testReader("bound"), ap, bp, a, b)
	require.NoError(t, err)
	A, B := a.CommitmentValue(), b.CommitmentValue()
	require.True(t, proof.Verify(A, B))

	bound := new(big.Int).Lsh(ap.Order(), transcript.OutputBits)
	assert.Equal(t, -1, proof.S2().Cmp(bound))
	assert.Equal(t, -1, proof.S3().Cmp(new(big.Int).Lsh(bp.Order(), transcript.OutputBits)))

	// adding a multiple of the order keeps h^S2 unchanged but leaves the honest range
	shifted := new(big.Int).Add(proof.S2(), bound)
	p, err := RebuildCommitmentEqualityProof(ap, bp, proof.Challenge(), proof.S1(), shifted, proof.S3())
	require.NoError(t, err)
	assert.False(t, p.Verify(A, B))

	shifted = new(big.Int).Add(proof.S3(), new(big.Int).Lsh(bp.Order(), transcript.OutputBits))
	p, err = RebuildCommitmentEqualityProof(ap, bp, proof.Challenge(), proof.S1(), proof.S2(), shifted)
	require.NoError(t, err)
	assert.False(t, p.Verify(A, B))
}
