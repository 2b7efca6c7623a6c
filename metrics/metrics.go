package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/srgchrksv/designnewshub/models"
)

const namespace = "designnews"

const (
	OutcomeCompleted = "completed"
	OutcomeError     = "error"
)

// Metrics holds the report cycle collectors.
type Metrics struct {
	cycles        *prometheus.CounterVec
	stageDur      *prometheus.HistogramVec
	status        *prometheus.GaugeVec
	lastSuccessTS prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Number of finished report cycles by outcome",
		}, []string{"outcome"}),
		stageDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each remote call of a cycle",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"stage"}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "status",
			Help:      "Current generation status (1 for the active status)",
		}, []string{"status"}),
		lastSuccessTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last completed cycle",
		}),
	}

	reg.MustRegister(m.cycles, m.stageDur, m.status, m.lastSuccessTS)
	m.SetStatus(models.StatusIdle)
	return m
}

func (m *Metrics) CycleFinished(outcome string) {
	m.cycles.WithLabelValues(outcome).Inc()
	if outcome == OutcomeCompleted {
		m.lastSuccessTS.SetToCurrentTime()
	}
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDur.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) SetStatus(status models.GenerationStatus) {
	for _, s := range models.AllStatuses {
		v := 0.0
		if s == status {
			v = 1
		}
		m.status.WithLabelValues(string(s)).Set(v)
	}
}
