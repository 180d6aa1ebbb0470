// Package metrics exposes engine counters through Prometheus.
package metrics

import (
	"time"

	"github.com/MartinDew/FeatherEngine/internal/core/event"
	"github.com/MartinDew/FeatherEngine/internal/core/system"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "feather"

// Metrics holds the engine collectors on a private registry so several
// engines (and tests) never collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	NotificationsFired *prometheus.CounterVec
	ListenersNotified  *prometheus.CounterVec
	Listeners          *prometheus.GaugeVec
	Frames             prometheus.Counter
	FrameSeconds       prometheus.Histogram
	PhaseSeconds       *prometheus.HistogramVec
	FixedSteps         prometheus.Counter
	ScriptReloads      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		NotificationsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "notifications_fired_total",
				Help:      "Notifications fired, by tag",
			},
			[]string{"notification"},
		),
		ListenersNotified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "listener_calls_total",
				Help:      "Listener invocations, by notification tag",
			},
			[]string{"notification"},
		),
		Listeners: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "listeners",
				Help:      "Live listeners, by notification tag",
			},
			[]string{"notification"},
		),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "frames_total",
			Help:      "Frames run by the main loop",
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "frame_seconds",
			Help:      "Wall time between consecutive frames",
			Buckets:   []float64{.001, .004, .008, .016, .033, .05, .1, .25, 1},
		}),
		PhaseSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "loop",
				Name:      "phase_seconds",
				Help:      "Time spent in each frame phase",
				Buckets:   []float64{.0001, .0005, .001, .004, .008, .016, .05},
			},
			[]string{"phase"},
		),
		FixedSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "fixed_steps_total",
			Help:      "Fixed simulation steps executed",
		}),
		ScriptReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scripting",
				Name:      "reloads_total",
				Help:      "Script reloads, by result",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(
		m.NotificationsFired, m.ListenersNotified, m.Listeners,
		m.Frames, m.FrameSeconds, m.PhaseSeconds, m.FixedSteps, m.ScriptReloads,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveFire records one Fire of n reaching listeners. It matches the
// event.Hub observer signature.
func (m *Metrics) ObserveFire(n event.Notification, listeners int) {
	label := n.String()
	m.NotificationsFired.WithLabelValues(label).Inc()
	m.ListenersNotified.WithLabelValues(label).Add(float64(listeners))
}

// ObserveListeners snapshots the listener count of every tag.
func (m *Metrics) ObserveListeners(h *event.Hub) {
	for _, n := range event.Notifications() {
		m.Listeners.WithLabelValues(n.String()).Set(float64(h.Listeners(n)))
	}
}

// ObserveFrame records one frame that took dt.
func (m *Metrics) ObserveFrame(dt time.Duration) {
	m.Frames.Inc()
	m.FrameSeconds.Observe(dt.Seconds())
}

// ObservePhase records the time one frame phase took. It matches the
// system.Runner observer signature.
func (m *Metrics) ObservePhase(p system.Phase, took time.Duration) {
	m.PhaseSeconds.WithLabelValues(p.String()).Observe(took.Seconds())
}

// ObserveReload records a script reload outcome.
func (m *Metrics) ObserveReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ScriptReloads.WithLabelValues(result).Inc()
}
