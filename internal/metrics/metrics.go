// metrics.go - Metrics collection for coin minting, accumulation and proofs.
//
// Collector is the interface the zerocoin package reports to. NewCollector backs it with
// Prometheus metrics registered on a caller supplied registry; NewNoopCollector discards
// everything.

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	namespace            = "zerocoin"
	subsystemMint        = "mint"
	subsystemAccumulator = "accumulator"
	subsystemProof       = "proof"
)

// Label names
const (
	LabelDenomination = "denomination"
	LabelReason       = "reason"
	LabelResult       = "result"
)

// OtherDenomination is the denomination label value shared by every non-standard
// denomination, which keeps the label's cardinality fixed.
const OtherDenomination = "other"

// Predefined metric names
const (
	MetricMintAttempts       = "attempts_total"
	MetricMintSuccess        = "success_total"
	MetricMintExhausted      = "exhausted_total"
	MetricMintDuration       = "duration_seconds"
	MetricMintAttemptsPerHit = "attempts_per_coin"
	MetricCoinsAccumulated   = "coins_total"
	MetricCoinsRejected      = "rejected_total"
	MetricProofGeneration    = "generation_seconds"
	MetricProofVerifications = "verifications_total"
)

// Collector receives events from minting, accumulation and proof code.
type Collector interface {
	MintAttempt(denomination string)
	MintSucceeded(denomination string, attempts uint64, duration time.Duration)
	MintExhausted(denomination string)
	CoinAccumulated(denomination string)
	CoinRejected(denomination, reason string)
	ProofCreated(duration time.Duration)
	ProofVerified(ok bool)
}

// PrometheusCollector implements Collector with Prometheus metrics.
type PrometheusCollector struct {
	mintAttempts   *prometheus.CounterVec
	mintSuccess    *prometheus.CounterVec
	mintExhausted  *prometheus.CounterVec
	mintDuration   *prometheus.HistogramVec
	attemptsPerHit *prometheus.HistogramVec
	accumulated    *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	proofDuration  prometheus.Histogram
	verifications  *prometheus.CounterVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		mintAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemMint,
			Name:      MetricMintAttempts,
			Help:      "number of candidate commitments drawn while minting",
		}, []string{LabelDenomination}),
		mintSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemMint,
			Name:      MetricMintSuccess,
			Help:      "number of coins minted",
		}, []string{LabelDenomination}),
		mintExhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemMint,
			Name:      MetricMintExhausted,
			Help:      "number of mint calls that ran out of attempts",
		}, []string{LabelDenomination}),
		mintDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemMint,
			Name:      MetricMintDuration,
			Help:      "time to mint one coin",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{LabelDenomination}),
		attemptsPerHit: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemMint,
			Name:      MetricMintAttemptsPerHit,
			Help:      "attempts needed per minted coin",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{LabelDenomination}),
		accumulated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAccumulator,
			Name:      MetricCoinsAccumulated,
			Help:      "number of coins folded into an accumulator or witness",
		}, []string{LabelDenomination}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemAccumulator,
			Name:      MetricCoinsRejected,
			Help:      "number of coins refused by an accumulator",
		}, []string{LabelDenomination, LabelReason}),
		proofDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemProof,
			Name:      MetricProofGeneration,
			Help:      "time to build a commitment equality proof",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemProof,
			Name:      MetricProofVerifications,
			Help:      "commitment equality proof verifications by result",
		}, []string{LabelResult}),
	}

	for _, m := range []prometheus.Collector{
		c.mintAttempts, c.mintSuccess, c.mintExhausted, c.mintDuration, c.attemptsPerHit,
		c.accumulated, c.rejected, c.proofDuration, c.verifications,
	} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return c, nil
}

func (c *PrometheusCollector) MintAttempt(denomination string) {
	c.mintAttempts.WithLabelValues(denomination).Inc()
}

func (c *PrometheusCollector) MintSucceeded(denomination string, attempts uint64, duration time.Duration) {
	c.mintSuccess.WithLabelValues(denomination).Inc()
	c.mintDuration.WithLabelValues(denomination).Observe(duration.Seconds())
	c.attemptsPerHit.WithLabelValues(denomination).Observe(float64(attempts))
}

func (c *PrometheusCollector) MintExhausted(denomination string) {
	c.mintExhausted.WithLabelValues(denomination).Inc()
}

func (c *PrometheusCollector) CoinAccumulated(denomination string) {
	c.accumulated.WithLabelValues(denomination).Inc()
}

func (c *PrometheusCollector) CoinRejected(denomination, reason string) {
	c.rejected.WithLabelValues(denomination, reason).Inc()
}

func (c *PrometheusCollector) ProofCreated(duration time.Duration) {
	c.proofDuration.Observe(duration.Seconds())
}

func (c *PrometheusCollector) ProofVerified(ok bool) {
	result := "invalid"
	if ok {
		result = "valid"
	}
	c.verifications.WithLabelValues(result).Inc()
}

// NoopCollector drops every event.
type NoopCollector struct{}

var _ Collector = NoopCollector{}

// NewNoopCollector returns a Collector that records nothing.
func NewNoopCollector() NoopCollector { return NoopCollector{} }

func (NoopCollector) MintAttempt(string) {}
func (NoopCollector) MintSucceeded(string, uint64, time.Duration) {}
func (NoopCollector) MintExhausted(string) {}
func (NoopCollector) CoinAccumulated(string) {}
func (NoopCollector) CoinRejected(string, string) {}
func (NoopCollector) ProofCreated(time.Duration) {}
func (NoopCollector) ProofVerified(bool) {}

// Summary flattens the gathered counters and histograms into "name{labels}" -> value.
// Histograms contribute a _count and a _sum entry.
func Summary(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	summary := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName() + labelString(m.GetLabel())
			switch {
			case m.GetCounter() != nil:
				summary[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				summary[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				summary[mf.GetName()+"_count"+labelString(m.GetLabel())] = float64(m.GetHistogram().GetSampleCount())
				summary[mf.GetName()+"_sum"+labelString(m.GetLabel())] = m.GetHistogram().GetSampleSum()
			}
		}
	}
	return summary, nil
}

// labelString renders labels deterministically, sorted by name.
func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

// SortedKeys returns the keys of a Summary in lexical order.
func SortedKeys(summary map[string]float64) []string {
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
