package zerocoin

import (
	"context"
	"io"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// testReader returns a deterministic byte stream seeded by seed.
func testReader(seed string) io.Reader {
	h := sha3.NewShake256()
	_, _ = h.Write([]byte(seed))
	return h
}

func testGenerationConfig() GenerationConfig {
	return GenerationConfig{
		ModulusBits:            128,
		OrderBits:              64,
		AccumulatorModulusBits: 256,
		ExtraBits:              16,
		ConfidenceLevel:        20,
	}
}

var (
	fixtureOnce   sync.Once
	fixtureParams *Params
	fixtureCoins  []*PrivateCoin
	fixtureErr    error
)

// fixture returns small generated parameters and a handful of Lovelace coins minted under them.
func fixture(t testing.TB) (*Params, []*PrivateCoin) {
	t.Helper()
	fixtureOnce.Do(func() {
		ctx := context.Background()
		fixtureParams, fixtureErr = GenerateParams(ctx, testReader("fixture params"), testGenerationConfig())
		if fixtureErr != nil {
			return
		}
		fixtureCoins, fixtureErr = MintCoins(ctx, testReader("fixture coins"), fixtureParams, Lovelace, 8)
	})
	require.NoError(t, fixtureErr)
	return fixtureParams, fixtureCoins
}

// smallGroup is the order-11 subgroup of Z_23^* generated by 2 and 3.
func smallGroup(t testing.TB) *IntegerGroupParams {
	t.Helper()
	g, err := NewIntegerGroupParams(big.NewInt(23), big.NewInt(2), big.NewInt(3), big.NewInt(11))
	require.NoError(t, err)
	return g
}

func publicCoins(coins []*PrivateCoin) []*PublicCoin {
	out := make([]*PublicCoin, len(coins))
	for i, c := range coins {
		out[i] = c.PublicCoin()
	}
	return out
}
