package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Recorder is safe to use as a nil pointer; every method becomes a no-op.
type Recorder struct {
	registry *prometheus.Registry

	validations     *prometheus.CounterVec
	consensusLevels *prometheus.CounterVec
	matchDuration   *prometheus.HistogramVec
	matchResults    *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

func New(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_applied_total",
			Help:      "Peer validations applied to capabilities.",
		}, []string{"mode"}),
		consensusLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consensus_recomputed_total",
			Help:      "Consensus recomputations by resulting level.",
		}, []string{"level"}),
		matchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Matching latency by direction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
		matchResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_results",
			Help:      "Number of matches returned by direction.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"direction"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_cache_lookups_total",
			Help:      "Match cache lookups by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.validations, r.consensusLevels, r.matchDuration, r.matchResults, r.cacheLookups)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ValidationsApplied(mode string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.validations.WithLabelValues(mode).Add(float64(n))
}

func (r *Recorder) ConsensusRecomputed(level string) {
	if r == nil {
		return
	}
	r.consensusLevels.WithLabelValues(level).Inc()
}

func (r *Recorder) MatchObserved(direction string, started time.Time, results int) {
	if r == nil {
		return
	}
	r.matchDuration.WithLabelValues(direction).Observe(time.Since(started).Seconds())
	r.matchResults.WithLabelValues(direction).Observe(float64(results))
}

func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}
