package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamePrefix = "giveaway_"

// Metrics are the engine's Prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	draws           prometheus.Counter
	winnersDrawn    prometheus.Counter
	joins           *prometheus.CounterVec
	claims          prometheus.Counter
	persistFailures prometheus.Counter
	tickDuration    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		draws: factory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "draws_total",
			Help: "Number of giveaways finalized by a draw",
		}),
		winnersDrawn: factory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "winners_drawn_total",
			Help: "Number of winners selected across all draws",
		}),
		joins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: metricNamePrefix + "joins_total",
			Help: "Join attempts by result",
		}, []string{"result"}),
		claims: factory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "claims_total",
			Help: "Number of first-time prize claims",
		}),
		persistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: metricNamePrefix + "persist_failures_total",
			Help: "Saves that exhausted their retries",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    metricNamePrefix + "scheduler_tick_seconds",
			Help:    "Duration of scheduler ticks",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeDraw(winners int) {
	if m == nil {
		return
	}
	m.draws.Inc()
	m.winnersDrawn.Add(float64(winners))
}

func (m *Metrics) observeJoin(result string) {
	if m == nil {
		return
	}
	m.joins.WithLabelValues(result).Inc()
}

func (m *Metrics) observeClaim() {
	if m == nil {
		return
	}
	m.claims.Inc()
}

func (m *Metrics) observeTick(seconds float64) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(seconds)
}

// ObservePersistFailure matches repository.StoreOptions.OnPersistFailure.
func (m *Metrics) ObservePersistFailure(_ string, _ error) {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}
