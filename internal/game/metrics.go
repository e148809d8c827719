package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer; every method becomes a no-op.
type Metrics struct {
	sessionsActive  prometheus.Gauge
	eventsPublished *prometheus.CounterVec
	publishFailures prometheus.Counter
	answers         *prometheus.CounterVec
	persistFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		sessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "quizlive_sessions_active",
			Help: "Live game sessions held by this process.",
		}),
		eventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quizlive_events_published_total",
			Help: "Session events handed to the broadcaster.",
		}, []string{"event"}),
		publishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "quizlive_publish_failures_total",
			Help: "Session events the broadcaster rejected.",
		}),
		answers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "quizlive_answers_total",
			Help: "Accepted answer submissions.",
		}, []string{"result"}),
		persistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "quizlive_result_persist_failures_total",
			Help: "Game or player result writes that failed.",
		}),
	}
}

func (m *Metrics) sessionCreated() {
	if m != nil {
		m.sessionsActive.Inc()
	}
}

func (m *Metrics) sessionDestroyed() {
	if m != nil {
		m.sessionsActive.Dec()
	}
}

func (m *Metrics) eventPublished(event string) {
	if m != nil {
		m.eventsPublished.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) publishFailed() {
	if m != nil {
		m.publishFailures.Inc()
	}
}

func (m *Metrics) answerAccepted(correct bool) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
}

func (m *Metrics) persistFailed() {
	if m != nil {
		m.persistFailures.Inc()
	}
}
