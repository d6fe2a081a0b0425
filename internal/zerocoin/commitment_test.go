package zerocoin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitmentFormula(t *testing.T) {
	c := newCommitment(smallGroup(t), big.NewInt(5), big.NewInt(3))
	// 2^5 · 3^3 mod 23 = 9 · 4 mod 23
	assert.Equal(t, int64(13), c.CommitmentValue().Int64())
	assert.Equal(t, int64(5), c.Contents().Int64())
	assert.Equal(t, int64(3), c.Randomness().Int64())
}

func TestNewCommitment(t *testing.T) {
	group := smallGroup(t)
	rnd := testReader("commitment")
	for i := 0; i < 20; i++ {
		m := big.NewInt(int64(i))
		c, err := NewCommitment(rnd, group, m)
		require.NoError(t, err)

		r := c.Randomness()
		assert.Equal(t, -1, r.Cmp(group.Order()))
		assert.GreaterOrEqual(t, r.Sign(), 0)
		want := newCommitment(group, m, r)
		assert.Equal(t, 0, want.CommitmentValue().Cmp(c.CommitmentValue()))
		assert.Same(t, group, c.Params())
	}
}

func TestNewCommitmentRejectsBadInput(t *testing.T) {
	_, err := NewCommitment(nil, nil, big.NewInt(1))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewCommitment(nil, &IntegerGroupParams{}, big.NewInt(1))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = NewCommitment(nil, smallGroup(t), nil)
	require.ErrorIs(t, err, ErrValidation)
}
