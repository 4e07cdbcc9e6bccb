package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "league"

// Metrics holds the service counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	matchTransitions   *prometheus.CounterVec
	tournamentsCreated prometheus.Counter
	eventsPublished    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		matchTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_transitions_total",
			Help:      "Match state transitions attempted, by transition and outcome.",
		}, []string{"transition", "result"}),
		tournamentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_created_total",
			Help:      "Tournaments created.",
		}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the publisher, by type and outcome.",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) MatchTransition(transition, result string) {
	if m == nil {
		return
	}
	m.matchTransitions.WithLabelValues(transition, result).Inc()
}

func (m *Metrics) TournamentCreated() {
	if m == nil {
		return
	}
	m.tournamentsCreated.Inc()
}

func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}
