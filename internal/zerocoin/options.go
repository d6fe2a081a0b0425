package zerocoin

import (
	"runtime"

	"github.com/rs/zerolog"

	"zerocoin/internal/metrics"
	"zerocoin/internal/transcript"
)

// Option configures minting, accumulators and proofs. Each constructor reads only the
// settings that apply to it.
type Option func(*options)

type options struct {
	logger      zerolog.Logger
	metrics     metrics.Collector
	hash        transcript.Hash
	maxAttempts uint64
	workers     int
	validator   Validator
}

func newOptions(opts []Option) options {
	o := options{
		logger:      zerolog.Nop(),
		metrics:     metrics.NewNoopCollector(),
		hash:        transcript.SHA256d,
		maxAttempts: MaxCoinMintAttempts,
		workers:     runtime.GOMAXPROCS(0),
		validator:   coinValidity{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. Secrets are never logged.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics reports events to c.
func WithMetrics(c metrics.Collector) Option {
	return func(o *options) {
		if c != nil {
			o.metrics = c
		}
	}
}

// WithChallengeHash selects the Fiat-Shamir hash of an equality proof. Default SHA256d.
func WithChallengeHash(h transcript.Hash) Option {
	return func(o *options) { o.hash = h }
}

// WithMaxAttempts bounds the minting loop. Default MaxCoinMintAttempts.
func WithMaxAttempts(n uint64) Option {
	return func(o *options) { o.maxAttempts = n }
}

// WithWorkers bounds the goroutines used by MintCoins. Default GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithValidator replaces the coin check used by Accumulate, e.g. with a CoinValidator.
func WithValidator(v Validator) Option {
	return func(o *options) {
		if v != nil {
			o.validator = v
		}
	}
}
