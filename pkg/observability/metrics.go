package observability

import (
	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle hooks
// and finished runs.
type Metrics struct {
	Ticks        prometheus.Counter
	Halts        *prometheus.CounterVec
	Resets       *prometheus.CounterVec
	Edits        *prometheus.CounterVec
	Runs         *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	RunTicks     prometheus.Histogram
	LiveMachines prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_ticks_total",
			Help: "Total number of applied steps across all machines",
		}),
		Halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Number of halts by halting state",
			},
			[]string{"state"},
		),
		Resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_resets_total",
				Help: "Number of resets by mode",
			},
			[]string{"mode"},
		),
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_edits_total",
				Help: "Number of manual edits by target",
			},
			[]string{"kind", "field"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_runs_total",
				Help: "Number of finished continuous runs by stop reason",
			},
			[]string{"reason"},
		),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_duration_seconds",
			Help:    "Wall time of continuous runs",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		RunTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_ticks",
			Help:    "Ticks taken by continuous runs",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		LiveMachines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "turing_machines",
			Help: "Number of live machines",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Ticks, m.Halts, m.Resets, m.Edits, m.Runs, m.RunDuration, m.RunTicks, m.LiveMachines)
	}
	return m
}

// Hooks returns lifecycle hooks that record engine events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(e *domain.StepEvent) {
			m.Ticks.Inc()
		},
		OnHalt: func(e *domain.StepEvent) {
			m.Halts.WithLabelValues(e.Rule.Next.String()).Inc()
		},
		OnReset: func(e *domain.ResetEvent) {
			mode := "deterministic"
			if e.Randomized {
				mode = "random"
			}
			m.Resets.WithLabelValues(mode).Inc()
		},
		OnEdit: func(e *domain.EditEvent) {
			m.Edits.WithLabelValues(string(e.Kind), string(e.Field)).Inc()
		},
	}
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(rec *domain.RunRecord) {
	m.Runs.WithLabelValues(string(rec.Reason)).Inc()
	m.RunDuration.Observe(rec.Duration.Seconds())
	m.RunTicks.Observe(float64(rec.Ticks))
}
