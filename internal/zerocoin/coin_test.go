package zerocoin

import (
	"context"
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerocoin/internal/metrics"
)

func TestMintCoin(t *testing.T) {
	params, _ := fixture(t)
	accParams := params.AccumulatorParams()

	coin, err := MintCoin(context.Background(), testReader("mint"), params, Rackoff)
	require.NoError(t, err)

	pub := coin.PublicCoin()
	assert.True(t, pub.Validate())
	assert.True(t, pub.Value().ProbablyPrime(20))
	assert.Equal(t, 1, pub.Value().Cmp(accParams.MinCoinValue()))
	assert.Equal(t, -1, pub.Value().Cmp(accParams.MaxCoinValue()))
	assert.Equal(t, Rackoff, pub.Denomination())
	assert.Same(t, params, coin.Params())

	// the coin opens to its serial number
	assert.Equal(t, 0, coin.Commitment().CommitmentValue().Cmp(pub.Value()))
	assert.Equal(t, -1, coin.SerialNumber().Cmp(params.CoinCommitmentGroup().Order()))
}

func TestMintCoinExhausted(t *testing.T) {
	acc, err := NewAccumulatorParams(big.NewInt(35), big.NewInt(2), big.NewInt(2), big.NewInt(3), 20)
	require.NoError(t, err)
	params, err := NewParams(smallGroup(t), acc)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	_, err = MintCoin(context.Background(), testReader("exhaust"), params, Lovelace,
		WithMaxAttempts(5), WithMetrics(collector))
	require.ErrorIs(t, err, ErrExhausted)

	summary, err := metrics.Summary(reg)
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary[`zerocoin_mint_attempts_total{denomination="1"}`])
	assert.Equal(t, 1.0, summary[`zerocoin_mint_exhausted_total{denomination="1"}`])
}

func TestMintCoinCanceled(t *testing.T) {
	params, _ := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MintCoin(ctx, testReader("cancel"), params, Lovelace)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMintCoinUninitialized(t *testing.T) {
	_, err := MintCoin(context.Background(), nil, &Params{}, Lovelace)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestMintCoins(t *testing.T) {
	params, coins := fixture(t)
	require.Len(t, coins, 8)

	seen := make(map[string]bool)
	for _, c := range coins {
		require.NotNil(t, c)
		assert.True(t, c.PublicCoin().Validate())
		seen[c.PublicCoin().Value().String()] = true
	}
	assert.Len(t, seen, len(coins))

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	more, err := MintCoins(context.Background(), nil, params, Pedersen, 3,
		WithWorkers(2), WithMetrics(collector))
	require.NoError(t, err)
	require.Len(t, more, 3)

	summary, err := metrics.Summary(reg)
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary[`zerocoin_mint_success_total{denomination="50"}`])
	assert.Equal(t, 3.0, summary[`zerocoin_mint_duration_seconds_count{denomination="50"}`])
}

func TestMintCoinsPropagatesFailure(t *testing.T) {
	acc, err := NewAccumulatorParams(big.NewInt(35), big.NewInt(2), big.NewInt(2), big.NewInt(3), 20)
	require.NoError(t, err)
	params, err := NewParams(smallGroup(t), acc)
	require.NoError(t, err)

	_, err = MintCoins(context.Background(), testReader("batch"), params, Lovelace, 4, WithMaxAttempts(3))
	require.ErrorIs(t, err, ErrExhausted)

	_, err = MintCoins(context.Background(), nil, params, Lovelace, -1)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPublicCoinValidateBoundaries(t *testing.T) {
	params, coins := fixture(t)
	accParams := params.AccumulatorParams()

	for name, v := range map[string]*big.Int{
		"min":       accParams.MinCoinValue(),
		"max":       accParams.MaxCoinValue(),
		"composite": new(big.Int).Add(coins[0].PublicCoin().Value(), big.NewInt(1)),
	} {
		c, err := NewPublicCoin(params, v, Lovelace)
		require.NoError(t, err)
		assert.False(t, c.Validate(), name)
	}

	var nilCoin *PublicCoin
	assert.False(t, nilCoin.Validate())

	_, err := NewPublicCoin(&Params{}, big.NewInt(7), Lovelace)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestPublicCoinEquals(t *testing.T) {
	params, coins := fixture(t)
	a := coins[0].PublicCoin()
	b, err := NewPublicCoin(params, a.Value(), a.Denomination())
	require.NoError(t, err)
	assert.True(t, a.Equals(b))

	c, err := NewPublicCoin(params, a.Value(), Williamson)
	require.NoError(t, err)
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(coins[1].PublicCoin()))
	assert.False(t, a.Equals(nil))
}

func TestDenomination(t *testing.T) {
	assert.Equal(t, "lovelace", Lovelace.String())
	assert.Equal(t, "williamson", Williamson.String())
	assert.Equal(t, "7", Denomination(7).String())

	d, err := ParseDenomination("rackoff")
	require.NoError(t, err)
	assert.Equal(t, Rackoff, d)
	d, err = ParseDenomination("42")
	require.NoError(t, err)
	assert.Equal(t, Denomination(42), d)
	_, err = ParseDenomination("0")
	require.ErrorIs(t, err, ErrValidation)
	_, err = ParseDenomination("dollar")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSpendMetaData(t *testing.T) {
	var id, tx [32]byte
	id[0], tx[31] = 1, 2
	m := NewSpendMetaData(id, tx)
	assert.Equal(t, id, m.AccumulatorID())
	assert.Equal(t, tx, m.TxHash())
}

func TestDenominationLabel(t *testing.T) {
	assert.Equal(t, "1", Lovelace.label())
	assert.Equal(t, "100", Williamson.label())
	assert.Equal(t, metrics.OtherDenomination, Denomination(7).label())
	assert.Equal(t, metrics.OtherDenomination, Denomination(4294967295).label())

	params, _ := fixture(t)
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)
	for _, d := range []Denomination{3, 7, 42} {
		_, err := MintCoin(context.Background(), testReader("label "+d.String()), params, d, WithMetrics(collector))
		require.NoError(t, err)
	}

	summary, err := metrics.Summary(reg)
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary[`zerocoin_mint_success_total{denomination="other"}`])
	for name := range summary {
		assert.NotContains(t, name, `denomination="42"`)
	}
}
