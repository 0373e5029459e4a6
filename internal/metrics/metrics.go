package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jaminalder/moving-tic-tac-toe/internal/domain"
)

// Metrics groups the match lifecycle collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	matchesStarted prometheus.Counter
	outcomes       *prometheus.CounterVec
	sessions       prometheus.Gauge
}

// New creates the collectors and registers them on reg when it is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		matchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moving_ttt_matches_started_total",
			Help: "Matches whose clock was started by a first move.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moving_ttt_outcomes_total",
			Help: "Finished matches by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moving_ttt_sessions",
			Help: "Sessions currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.matchesStarted, m.outcomes, m.sessions)
	}
	return m
}

func (m *Metrics) MatchStarted() {
	if m == nil {
		return
	}
	m.matchesStarted.Inc()
}

// MatchFinished counts a terminal outcome. Pending is ignored.
func (m *Metrics) MatchFinished(o domain.Outcome) {
	if m == nil || o == domain.Pending {
		return
	}
	m.outcomes.WithLabelValues(o.String()).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}
