// Package metrics defines the Prometheus collectors of the search function.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "discovery"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	SearchRequests  *prometheus.CounterVec
	SearchDuration  prometheus.Histogram
	SearchWidened   prometheus.Counter
	Candidates      prometheus.Histogram
	RankingCalls    *prometheus.CounterVec
	RankingDuration prometheus.Histogram
	BreakerState    *prometheus.GaugeVec
	SearchLogErrors prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SearchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Searches by outcome (ok, empty, invalid, error).",
		}, []string{"outcome"}),
		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search latency.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		SearchWidened: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_widened_total",
			Help:      "Searches that fell back to the widened filter.",
		}),
		Candidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates",
			Help:      "Candidates left after retrieval and the day-type filter.",
			Buckets:   []float64{0, 1, 5, 15, 50, 100, 150},
		}),
		RankingCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_calls_total",
			Help:      "Ranking outcomes; reason is empty when the model was used.",
		}, []string{"source", "reason"}),
		RankingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Latency of the ranking stage including fallback.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 8},
		}),
		BreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
		SearchLogErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_log_errors_total",
			Help:      "Search log writes that failed.",
		}),
	}
}

func (m *Metrics) ObserveSearch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(outcome).Inc()
	m.SearchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveCandidates(n int, widened bool) {
	if m == nil {
		return
	}
	m.Candidates.Observe(float64(n))
	if widened {
		m.SearchWidened.Inc()
	}
}

func (m *Metrics) ObserveRanking(aiUsed bool, reason string, d time.Duration) {
	if m == nil {
		return
	}
	source := "fallback"
	if aiUsed {
		source = "model"
	}
	m.RankingCalls.WithLabelValues(source, reason).Inc()
	m.RankingDuration.Observe(d.Seconds())
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) IncSearchLogErrors() {
	if m == nil {
		return
	}
	m.SearchLogErrors.Inc()
}

// Handler exposes the collectors of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
