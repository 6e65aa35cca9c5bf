package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы хода
const (
	OutcomeCompleted       = "completed"
	OutcomeNarrativeFailed = "narrative_failed"
	OutcomeSceneFailed     = "scene_failed"
)

// Причины игнорирования отправки
const (
	ReasonEmptyInput     = "empty_input"
	ReasonTurnInProgress = "turn_in_progress"
	ReasonUnknownChoice  = "unknown_choice"
)

// Metrics - метрики контроллера хода. Nil *Metrics допустим и ничего не делает.
type Metrics struct {
	turns          *prometheus.CounterVec
	ignored        *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	health         prometheus.Gauge
}

// NewMetrics регистрирует метрики в reg.
// Мы используем promauto.With(reg), чтобы тесты могли передать собственный реестр.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		turns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novel_client_turns_total",
				Help: "Total number of finished turns, partitioned by outcome.",
			},
			[]string{"outcome"}, // completed, narrative_failed, scene_failed
		),
		ignored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "novel_client_submissions_ignored_total",
				Help: "Total number of ignored submissions, partitioned by reason.",
			},
			[]string{"reason"},
		),
		remoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "novel_client_remote_call_duration_seconds",
				Help:    "Duration of calls to the narrative and scene services.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms ... ~25s
			},
			[]string{"service", "status"},
		),
		health: factory.NewGauge(prometheus.GaugeOpts{
			Name: "novel_client_health",
			Help: "Current player health.",
		}),
	}
}

func (m *Metrics) turnFinished(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) submissionIgnored(reason string) {
	if m == nil {
		return
	}
	m.ignored.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeCall(service string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.remoteDuration.WithLabelValues(service, status).Observe(elapsed.Seconds())
}

func (m *Metrics) setHealth(health int) {
	if m == nil {
		return
	}
	m.health.Set(float64(health))
}
