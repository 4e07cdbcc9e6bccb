package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCount(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MatchTransition("submit", "ok")
	m.MatchTransition("submit", "ok")
	m.MatchTransition("approve", "conflict")
	m.TournamentCreated()
	m.EventPublished("submitted", nil)
	m.EventPublished("submitted", errors.New("socket closed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.matchTransitions.WithLabelValues("submit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchTransitions.WithLabelValues("approve", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tournamentsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("submitted", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("submitted", "error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.MatchTransition("submit", "ok")
		m.TournamentCreated()
		m.EventPublished("approved", nil)
	})
}
