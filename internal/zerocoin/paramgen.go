// paramgen.go - Fresh parameter generation.
//
// The coin group is the order-q subgroup of Z_p^* with p = k·q + 1. The serial number SoK
// group has the coin modulus as its order, and the accumulator PoK group has an order wider
// than the coin modulus, so coin values can be re-committed in both. The accumulator modulus
// is a product of two random primes.
//
// A generated accumulator modulus is only trustworthy when nobody keeps its factors. This
// generator discards them but cannot prove it did; production deployments should use a
// modulus from a public ceremony.

package zerocoin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/hashicorp/go-multierror"

	"zerocoin/internal/attempt"
)

// accumulatorBaseRoot is the square root of the preferred accumulator base, 961.
const accumulatorBaseRoot = 31

// GenerationConfig sizes the generated parameters, in bits.
type GenerationConfig struct {
	ModulusBits            int `json:"modulus_bits"`
	OrderBits              int `json:"order_bits"`
	AccumulatorModulusBits int `json:"accumulator_modulus_bits"`
	ExtraBits              int `json:"extra_bits"`
	ConfidenceLevel        int `json:"confidence_level"`
}

// DefaultGenerationConfig returns production sizes.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		ModulusBits:            1024,
		OrderBits:              256,
		AccumulatorModulusBits: 2048,
		ExtraBits:              64,
		ConfidenceLevel:        DefaultConfidenceLevel,
	}
}

// Validate checks that the sizes are usable.
func (c GenerationConfig) Validate() error {
	var result *multierror.Error
	if c.OrderBits < 8 {
		result = multierror.Append(result, errors.New("order_bits must be at least 8"))
	}
	if c.ModulusBits < c.OrderBits+2 {
		result = multierror.Append(result, errors.New("modulus_bits must exceed order_bits by at least 2"))
	}
	if c.AccumulatorModulusBits < 16 {
		result = multierror.Append(result, errors.New("accumulator_modulus_bits must be at least 16"))
	}
	if c.ExtraBits < 2 {
		result = multierror.Append(result, errors.New("extra_bits must be at least 2"))
	}
	if c.ConfidenceLevel <= 0 {
		result = multierror.Append(result, errors.New("confidence_level must be positive"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// GenerateParams creates a complete, validated parameter set from rnd.
func GenerateParams(ctx context.Context, rnd io.Reader, cfg GenerationConfig) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rnd = source(rnd)

	q, err := randomPrime(ctx, rnd, cfg.OrderBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coin group order: %w", err)
	}
	coinGroup, err := deriveGroup(ctx, rnd, q, cfg.ModulusBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coin commitment group: %w", err)
	}

	sokGroup, err := deriveGroup(ctx, rnd, coinGroup.modulus, cfg.ModulusBits+cfg.ExtraBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number SoK group: %w", err)
	}

	pokOrderBits := coinGroup.modulus.BitLen() + cfg.ExtraBits
	pokOrder, err := randomPrime(ctx, rnd, pokOrderBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate accumulator PoK group order: %w", err)
	}
	pokGroup, err := deriveGroup(ctx, rnd, pokOrder, pokOrderBits+cfg.ExtraBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate accumulator PoK group: %w", err)
	}

	acc, err := generateAccumulator(ctx, rnd, coinGroup.modulus, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate accumulator parameters: %w", err)
	}

	return NewParams(coinGroup, acc,
		WithSerialNumberSoKGroup(sokGroup),
		WithAccumulatorPoKGroup(pokGroup))
}

// searchBound limits every randomized search. Primes of the given width are dense enough
// that the bound is never reached with a working reader.
func searchBound(bits int) uint64 { return uint64(64 * bits) }

// randomBits returns a uniform integer of exactly bits bits.
func randomBits(rnd io.Reader, bits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(rnd, buf); err != nil {
		return nil, fmt.Errorf("failed to draw randomness: %w", err)
	}
	n := new(big.Int).SetBytes(buf)
	if excess := len(buf)*8 - bits; excess > 0 {
		n.Rsh(n, uint(excess))
	}
	return n.SetBit(n, bits-1, 1), nil
}

// randomPrime returns a prime of exactly bits bits.
func randomPrime(ctx context.Context, rnd io.Reader, bits int) (*big.Int, error) {
	p, _, err := attempt.Until[*big.Int](ctx, searchBound(bits), func(ctx context.Context, _ uint64) (*big.Int, bool, error) {
		n, err := randomBits(rnd, bits)
		if err != nil {
			return nil, false, err
		}
		n.SetBit(n, 0, 1)
		return n, n.ProbablyPrime(groupConfidence), nil
	})
	return p, err
}

// deriveGroup finds a prime p = k·order + 1 of modulusBits bits and two distinct generators
// of the order subgroup.
func deriveGroup(ctx context.Context, rnd io.Reader, order *big.Int, modulusBits int) (*IntegerGroupParams, error) {
	kBits := modulusBits - order.BitLen()
	if kBits < 2 {
		return nil, fmt.Errorf("%w: modulus of %d bits cannot hold an order of %d bits",
			ErrConfiguration, modulusBits, order.BitLen())
	}
	p, _, err := attempt.Until[*big.Int](ctx, searchBound(modulusBits), func(ctx context.Context, _ uint64) (*big.Int, bool, error) {
		k, err := randomBits(rnd, kBits)
		if err != nil {
			return nil, false, err
		}
		k.SetBit(k, 0, 0)
		p := k.Mul(k, order)
		p.Add(p, bigOne)
		return p, p.BitLen() == modulusBits && p.ProbablyPrime(groupConfidence), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find group modulus: %w", err)
	}

	g, err := subgroupGenerator(ctx, rnd, p, order, nil)
	if err != nil {
		return nil, err
	}
	h, err := subgroupGenerator(ctx, rnd, p, order, g)
	if err != nil {
		return nil, err
	}
	return NewIntegerGroupParams(p, g, h, order)
}

// subgroupGenerator returns x^((p-1)/order) mod p for a random x, skipping 1 and exclude.
func subgroupGenerator(ctx context.Context, rnd io.Reader, p, order, exclude *big.Int) (*big.Int, error) {
	cofactor := new(big.Int).Sub(p, bigOne)
	cofactor.Quo(cofactor, order)
	span := new(big.Int).Sub(p, bigTwo)

	gen, _, err := attempt.Until[*big.Int](ctx, searchBound(p.BitLen()), func(ctx context.Context, _ uint64) (*big.Int, bool, error) {
		x, err := randomBelow(rnd, span)
		if err != nil {
			return nil, false, err
		}
		x.Add(x, bigOne)
		g := x.Exp(x, cofactor, p)
		ok := g.Cmp(bigOne) != 0 && (exclude == nil || g.Cmp(exclude) != 0)
		return g, ok, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find subgroup generator: %w", err)
	}
	return gen, nil
}

// generateAccumulator builds N from two primes and sets the coin range to
// (isqrt(coinModulus)+1, coinModulus).
func generateAccumulator(ctx context.Context, rnd io.Reader, coinModulus *big.Int, cfg GenerationConfig) (*AccumulatorParams, error) {
	half := cfg.AccumulatorModulusBits / 2
	var n *big.Int
	for n == nil {
		p1, err := randomPrime(ctx, rnd, half)
		if err != nil {
			return nil, err
		}
		p2, err := randomPrime(ctx, rnd, cfg.AccumulatorModulusBits-half)
		if err != nil {
			return nil, err
		}
		if p1.Cmp(p2) != 0 {
			n = p1.Mul(p1, p2)
		}
	}

	base, err := accumulatorBase(n)
	if err != nil {
		return nil, err
	}
	maxValue := new(big.Int).Set(coinModulus)
	minValue := new(big.Int).Sqrt(maxValue)
	minValue.Add(minValue, bigOne)
	return NewAccumulatorParams(n, base, minValue, maxValue, cfg.ConfidenceLevel)
}

// accumulatorBase returns 961, or the next square above it that is a unit mod n.
func accumulatorBase(n *big.Int) (*big.Int, error) {
	for root := int64(accumulatorBaseRoot); ; root++ {
		b := big.NewInt(root)
		b.Mul(b, b)
		if b.Cmp(n) >= 0 {
			return nil, fmt.Errorf("%w: accumulator modulus too small for a base", ErrConfiguration)
		}
		if new(big.Int).GCD(nil, nil, b, n).Cmp(bigOne) == 0 {
			return b, nil
		}
	}
}
