// Package app coordinates the per-frame pipeline of the mudra gesture
// interpreter: it classifies the first detected hand and fans the gesture out
// to the announcer, history log, drawing machine and media transport.
package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/announce"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/drawing"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/history"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/transport"
)

// NoHandLabel is shown when a frame carries no hand.
const NoHandLabel = "No Hand"

// Config holds the collaborators of an App. Camera, Detector, Announcer and
// Metrics are optional; the remaining components get defaults when nil.
type Config struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Announcer *announce.Announcer
	History   *history.Log
	Drawing   *drawing.Machine
	Transport *transport.Controller
	Metrics   *metrics.Manager
	Logger    *slog.Logger

	// Clock stamps history entries. Defaults to time.Now.
	Clock func() time.Time
}

// FrameResult summarizes one handled frame.
type FrameResult struct {
	HandCount int             `json:"hand_count"`
	Detected  bool            `json:"detected"`
	Gesture   gesture.Gesture `json:"gesture"`
	Label     string          `json:"label"`
	Icon      string          `json:"icon"`
	Drawing   string          `json:"drawing"`
	History   []string        `json:"history"`
	Time      time.Time       `json:"time"`
}

// App is the gesture interpreter. HandleResults may be called from any
// goroutine; calls are serialized.
type App struct {
	camera    capture.Camera
	detector  detector.Detector
	announcer *announce.Announcer
	history   *history.Log
	drawing   *drawing.Machine
	transport *transport.Controller
	metrics   *metrics.Manager
	logger    *slog.Logger
	clock     func() time.Time

	frameMu sync.Mutex
	last    FrameResult

	lifecycle sync.Mutex // serializes camera start and stop

	mu          sync.RWMutex
	status      Status
	stopCh      chan struct{}
	doneCh      chan struct{}
	jpeg        []byte
	jpegSeq     uint64
	resultSubs  []func(FrameResult)
	statusSubs  []func(Status)
	lastFailure error
}

// New creates an App from config. The camera starts off.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.History == nil {
		config.History = history.New(history.DefaultCapacity)
	}
	if config.Drawing == nil {
		config.Drawing = drawing.NewMachine(
			drawing.NewRecorder(capture.DefaultWidth, capture.DefaultHeight),
			drawing.DefaultStroke(),
		)
	}
	if config.Transport == nil {
		config.Transport = transport.NewController(transport.NewElement(), transport.DefaultSeekStep)
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	a := &App{
		camera:    config.Camera,
		detector:  config.Detector,
		announcer: config.Announcer,
		history:   config.History,
		drawing:   config.Drawing,
		transport: config.Transport,
		metrics:   config.Metrics,
		logger:    logger.With("component", "app"),
		clock:     config.Clock,
		status:    StatusOff,
	}
	a.last = FrameResult{Label: NoHandLabel, Drawing: drawing.Idle.String(), History: []string{}}
	return a
}

// HandleResults runs one frame's worth of side effects for the detected
// hands. Only the first hand drives behavior; the rest are counted. An empty
// slice raises the no-detection event.
func (a *App) HandleResults(hands []detector.HandLandmarks) FrameResult {
	start := time.Now()

	a.frameMu.Lock()
	now := a.clock()
	res := FrameResult{
		HandCount: len(hands),
		Time:      now,
	}

	if len(hands) == 0 {
		a.noDetection()
		res.Label = NoHandLabel
	} else {
		hand := &hands[0]
		g := gesture.Classify(hand)
		a.dispatch(g, hand, now)

		res.Detected = true
		res.Gesture = g
		res.Label = g.String()
		res.Icon = g.Icon()
	}

	res.Drawing = a.drawing.State().String()
	res.History = a.history.Lines()
	a.last = res
	a.publishResult(res)
	a.frameMu.Unlock()

	if a.metrics != nil {
		a.metrics.RecordFrame(res.Detected, res.Label, time.Since(start))
	}
	return res
}

// publishResult delivers res to subscribers in frame order.
func (a *App) publishResult(res FrameResult) {
	a.mu.RLock()
	subs := a.resultSubs
	a.mu.RUnlock()
	for _, fn := range subs {
		fn(res)
	}
}

// dispatch fans a classified gesture out to every downstream component.
func (a *App) dispatch(g gesture.Gesture, hand *detector.HandLandmarks, now time.Time) {
	if a.announcer != nil && a.announcer.Announce(g) && a.metrics != nil {
		a.metrics.RecordAnnouncement()
	}

	a.history.Record(g, now)
	a.drawing.Step(g, hand.IndexTip())

	if err := a.transport.Apply(g); err != nil {
		a.logger.Warn("transport command failed", "gesture", g.String(), "error", err)
		if a.metrics != nil {
			a.metrics.RecordTransportError(transport.Command(g))
		}
	}
}

// noDetection returns the stateful components to their idle baseline.
func (a *App) noDetection() {
	if a.announcer != nil {
		a.announcer.Reset()
	}
	a.drawing.Lift()
}

// LastResult returns the most recently handled frame.
func (a *App) LastResult() FrameResult {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	res := a.last
	res.History = append([]string(nil), a.last.History...)
	return res
}

// History returns the current history entries, newest first.
func (a *App) History() []history.Entry {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	return a.history.Entries()
}

// Announcer returns the announcer, or nil when speech is disabled.
func (a *App) Announcer() *announce.Announcer {
	return a.announcer
}

// Subscribe registers fn to receive every frame result. fn runs on the
// handling goroutine and must not block.
func (a *App) Subscribe(fn func(FrameResult)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resultSubs = append(a.resultSubs, fn)
}

// OnStatus registers fn to receive camera status changes.
func (a *App) OnStatus(fn func(Status)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statusSubs = append(a.statusSubs, fn)
}

// Close stops the camera, releases the detector and silences speech.
func (a *App) Close() error {
	a.StopCamera()
	if a.announcer != nil {
		a.announcer.Close()
	}
	if a.detector != nil {
		return a.detector.Close()
	}
	return nil
}
