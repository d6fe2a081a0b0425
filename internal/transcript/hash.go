package transcript

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/sha3"
)

// OutputBits is the digest width of every Hash.
const OutputBits = 256

// Hash selects the function a challenge is derived with.
type Hash uint8

const (
	// SHA256d is SHA-256 applied twice.
	SHA256d Hash = iota
	// SHA3_256 is FIPS 202 SHA3-256.
	SHA3_256
	// MiMC is MiMC over the BN254 scalar field, cheap to recompute inside a SNARK.
	MiMC
)

func (h Hash) String() string {
	switch h {
	case SHA256d:
		return "sha256d"
	case SHA3_256:
		return "sha3-256"
	case MiMC:
		return "mimc-bn254"
	default:
		return fmt.Sprintf("hash(%d)", uint8(h))
	}
}

// ParseHash is the inverse of String.
func ParseHash(s string) (Hash, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha256d":
		return SHA256d, nil
	case "sha3-256", "sha3":
		return SHA3_256, nil
	case "mimc-bn254", "mimc":
		return MiMC, nil
	}
	return 0, fmt.Errorf("unknown challenge hash %q", s)
}

// Sum returns the 32-byte digest of data.
func (h Hash) Sum(data []byte) ([]byte, error) {
	switch h {
	case SHA256d:
		first := sha256.Sum256(data)
		second := sha256.Sum256(first[:])
		return second[:], nil
	case SHA3_256:
		d := sha3.Sum256(data)
		return d[:], nil
	case MiMC:
		return mimcSum(data)
	}
	return nil, fmt.Errorf("unsupported challenge hash %s", h)
}

// chunkSize keeps every chunk strictly below the BN254 scalar modulus.
const chunkSize = fr.Bytes - 1

// FieldElements splits data into BN254 scalars: the byte length first, then big-endian
// chunks of at most 31 bytes. The length prefix keeps zero-padded tails unambiguous.
func FieldElements(data []byte) []*big.Int {
	out := make([]*big.Int, 0, 1+(len(data)+chunkSize-1)/chunkSize)
	out = append(out, big.NewInt(int64(len(data))))
	for start := 0; start < len(data); start += chunkSize {
		end := min(start+chunkSize, len(data))
		out = append(out, new(big.Int).SetBytes(data[start:end]))
	}
	return out
}

func mimcSum(data []byte) ([]byte, error) {
	h := mimc.NewMiMC()
	for _, e := range FieldElements(data) {
		if _, err := h.Write(e.FillBytes(make([]byte, fr.Bytes))); err != nil {
			return nil, fmt.Errorf("mimc: %w", err)
		}
	}
	return h.Sum(nil), nil
}
