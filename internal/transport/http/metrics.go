package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edu-games/internal/domain"
)

// Metrics counts play activity on a private registry served at /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	SessionsStarted *prometheus.CounterVec
	SessionsEnded   *prometheus.CounterVec
	Answers         *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edu_games_sessions_started_total",
				Help: "Quiz sessions started per game",
			},
			[]string{"game"},
		),
		SessionsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edu_games_sessions_finished_total",
				Help: "Quiz sessions recorded in the ledger per game and final status",
			},
			[]string{"game", "status"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edu_games_answers_total",
				Help: "Graded answers by outcome",
			},
			[]string{"outcome"},
		),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edu_games_active_sessions",
			Help: "Sessions currently held by websocket connections",
		}),
	}
	m.registry.MustRegister(
		m.SessionsStarted,
		m.SessionsEnded,
		m.Answers,
		m.ActiveSessions,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) observeAnswer(outcome domain.Outcome) {
	m.Answers.WithLabelValues(string(outcome)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
