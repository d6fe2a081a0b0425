// transcript.go - Domain-separated Fiat-Shamir transcripts.
//
// A Transcript is a domain tag followed by an ordered list of items. Its byte form is the
// canonical (core deterministic) CBOR encoding of [domain, items...], so two parties that
// append the same values always hash the same bytes, and no item boundary is ambiguous.

package transcript

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("transcript: cbor encoding mode: %v", err))
	}
	return em
}

// Group is the transcript form of a prime-order subgroup description.
type Group struct {
	_       struct{} `cbor:",toarray"`
	Modulus *big.Int
	G       *big.Int
	H       *big.Int
	Order   *big.Int
}

// Transcript accumulates the public values a challenge is bound to.
type Transcript struct {
	domain string
	items  []any
}

// New starts a transcript under the given domain tag.
func New(domain string, items ...any) *Transcript {
	t := &Transcript{domain: domain}
	return t.Append(items...)
}

// Append adds items in order and returns the transcript.
func (t *Transcript) Append(items ...any) *Transcript {
	t.items = append(t.items, items...)
	return t
}

// Domain returns the domain tag.
func (t *Transcript) Domain() string {
	return t.domain
}

// Bytes returns the canonical encoding of the transcript.
func (t *Transcript) Bytes() ([]byte, error) {
	seq := make([]any, 0, len(t.items)+1)
	seq = append(seq, t.domain)
	seq = append(seq, t.items...)
	b, err := encMode.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript %q: %w", t.domain, err)
	}
	return b, nil
}

// Challenge hashes the transcript with h and reads the digest as a big-endian integer.
func (t *Transcript) Challenge(h Hash) (*big.Int, error) {
	b, err := t.Bytes()
	if err != nil {
		return nil, err
	}
	digest, err := h.Sum(b)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(digest), nil
}
