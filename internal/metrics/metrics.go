// Package metrics exposes Prometheus metrics for the gesture pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame processing takes well under a frame interval; buckets span 50µs to
// about 100ms.
var defaultBuckets = prometheus.ExponentialBuckets(0.00005, 2.5, 9)

// Manager owns the pipeline metrics and the registry they live on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	frames          *prometheus.CounterVec
	gestures        *prometheus.CounterVec
	announcements   prometheus.Counter
	speakErrors     prometheus.Counter
	transportErrors *prometheus.CounterVec
	rejected        prometheus.Counter
	frameLatency    prometheus.Histogram
	cameraRunning   prometheus.Gauge
	clients         prometheus.Gauge
}

// NewManager creates a Manager on a fresh registry unless WithRegistry is
// given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mudra",
		histogramBuckets: defaultBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.frames = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "frames_total",
		Help:      "Frames handled, by whether a hand was detected.",
	}, []string{"detected"})

	m.gestures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "gestures_total",
		Help:      "Classified frames by gesture.",
	}, []string{"gesture"})

	m.announcements = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "announcements_total",
		Help:      "Utterances started.",
	})

	m.speakErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "speak_errors_total",
		Help:      "Utterances that failed for a reason other than being superseded.",
	})

	m.transportErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "transport_errors_total",
		Help:      "Failed media transport commands.",
	}, []string{"command"})

	m.rejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "landmark_frames_rejected_total",
		Help:      "Ingested landmark frames dropped as malformed.",
	})

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "frame_handle_seconds",
		Help:      "Time to classify a frame and apply its effects.",
		Buckets:   m.histogramBuckets,
	})

	m.cameraRunning = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "camera_running",
		Help:      "1 while the local camera is capturing.",
	})

	m.clients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "event_clients",
		Help:      "Connected event websocket clients.",
	})
}

// RecordFrame counts a handled frame. gesture is ignored when detected is
// false.
func (m *Manager) RecordFrame(detected bool, gesture string, d time.Duration) {
	if detected {
		m.frames.WithLabelValues("true").Inc()
		m.gestures.WithLabelValues(gesture).Inc()
	} else {
		m.frames.WithLabelValues("false").Inc()
	}
	m.frameLatency.Observe(d.Seconds())
}

// RecordAnnouncement counts a started utterance.
func (m *Manager) RecordAnnouncement() { m.announcements.Inc() }

// RecordSpeakError counts a failed utterance.
func (m *Manager) RecordSpeakError() { m.speakErrors.Inc() }

// RecordTransportError counts a failed transport command.
func (m *Manager) RecordTransportError(command string) {
	m.transportErrors.WithLabelValues(command).Inc()
}

// RecordRejectedFrame counts a malformed ingested frame.
func (m *Manager) RecordRejectedFrame() { m.rejected.Inc() }

// SetCameraRunning sets the camera gauge.
func (m *Manager) SetCameraRunning(running bool) {
	if running {
		m.cameraRunning.Set(1)
	} else {
		m.cameraRunning.Set(0)
	}
}

// SetClients sets the connected client gauge.
func (m *Manager) SetClients(n int) { m.clients.Set(float64(n)) }

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
