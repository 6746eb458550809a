package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics счётчики обращений к провайдеру и активных сессий.
type Metrics struct {
	completions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	sessions    prometheus.Gauge
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jokebot",
			Name:      "completions_total",
			Help:      "Completion requests by model and outcome (ok|fallback).",
		}, []string{"model", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jokebot",
			Name:      "completion_duration_seconds",
			Help:      "Completion request latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"model"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "jokebot",
			Name:      "sessions_active",
			Help:      "Sessions currently held in memory.",
		}),
	}
	reg.MustRegister(m.completions, m.duration, m.sessions)
	return m
}

func (m *Metrics) ObserveCompletion(model string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fallback"
	}
	m.completions.WithLabelValues(model, outcome).Inc()
	m.duration.WithLabelValues(model).Observe(duration.Seconds())
}

func (m *Metrics) SetSessions(n int) {
	m.sessions.Set(float64(n))
}
