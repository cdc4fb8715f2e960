package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crius"

// Metrics holds the frame and system collectors on a private registry.
// It satisfies schedule.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	systemDuration *prometheus.HistogramVec
	frameDuration  prometheus.Histogram
	frames         prometheus.Counter
	sceneDepth     prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	// Frame budgets sit in the low milliseconds.
	buckets := prometheus.ExponentialBuckets(0.0001, 2, 12)

	m := &Metrics{
		registry: registry,
		systemDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "system_duration_seconds",
				Help:      "Time spent running a system",
				Buckets:   buckets,
			},
			[]string{"stage", "system"},
		),
		frameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "frame_duration_seconds",
				Help:      "Time spent executing the schedule for one frame",
				Buckets:   buckets,
			},
		),
		frames: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Frames executed",
			},
		),
		sceneDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scene_depth",
				Help:      "Scenes on the stack",
			},
		),
	}

	registry.MustRegister(
		m.systemDuration,
		m.frameDuration,
		m.frames,
		m.sceneDepth,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveSystem records one system run
func (m *Metrics) ObserveSystem(stage int, name string, d time.Duration) {
	m.systemDuration.WithLabelValues(strconv.Itoa(stage), name).Observe(d.Seconds())
}

// ObserveFrame records one completed schedule execution
func (m *Metrics) ObserveFrame(d time.Duration) {
	m.frameDuration.Observe(d.Seconds())
	m.frames.Inc()
}

// SetSceneDepth records the current scene stack depth
func (m *Metrics) SetSceneDepth(n int) {
	m.sceneDepth.Set(float64(n))
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
