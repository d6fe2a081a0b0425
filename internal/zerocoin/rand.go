package zerocoin

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
)

// source returns rnd, or crypto/rand when rnd is nil.
func source(rnd io.Reader) io.Reader {
	if rnd == nil {
		return rand.Reader
	}
	return rnd
}

// randomBelow draws uniformly from [0, bound).
func randomBelow(rnd io.Reader, bound *big.Int) (*big.Int, error) {
	n, err := rand.Int(source(rnd), bound)
	if err != nil {
		return nil, fmt.Errorf("failed to draw randomness: %w", err)
	}
	return n, nil
}

// lockedReader serializes reads so one stream can feed several goroutines.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
