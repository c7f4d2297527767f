package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// fingerChains lists each finger's joints from base to tip.
var fingerChains = [5][4]int{
	{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
	{IndexMCP, IndexPIP, IndexDIP, IndexTip},
	{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	{RingMCP, RingPIP, RingDIP, RingTip},
	{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// HandFromTips builds a right hand whose intermediate joints lie on the
// straight line from the wrist to each fingertip. tips are ordered thumb,
// index, middle, ring, pinky.
func HandFromTips(wrist Point3D, tips [5]Point3D) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}
	h.Points[Wrist] = wrist

	fractions := [4]float64{0.35, 0.6, 0.8, 1.0}
	for f, chain := range fingerChains {
		tip := tips[f]
		for j, idx := range chain {
			t := fractions[j]
			h.Points[idx] = Point3D{
				X: wrist.X + t*(tip.X-wrist.X),
				Y: wrist.Y + t*(tip.Y-wrist.Y),
				Z: wrist.Z + t*(tip.Z-wrist.Z),
			}
		}
	}
	return h
}

// ThumbsUpLandmarks returns a hand with the thumb extended upward and the
// other four fingers curled below the wrist.
func ThumbsUpLandmarks() HandLandmarks {
	return HandFromTips(
		Point3D{X: 0.5, Y: 0.5},
		[5]Point3D{
			{X: 0.52, Y: 0.20},
			{X: 0.56, Y: 0.56},
			{X: 0.53, Y: 0.58},
			{X: 0.50, Y: 0.58},
			{X: 0.47, Y: 0.57},
		},
	)
}

// OpenPalmLandmarks returns a hand with all five fingertips above the wrist.
func OpenPalmLandmarks() HandLandmarks {
	return HandFromTips(
		Point3D{X: 0.5, Y: 0.8},
		[5]Point3D{
			{X: 0.73, Y: 0.60},
			{X: 0.58, Y: 0.35},
			{X: 0.50, Y: 0.28},
			{X: 0.42, Y: 0.35},
			{X: 0.34, Y: 0.42},
		},
	)
}

// FistLandmarks returns a hand with every fingertip curled within a few
// hundredths of the wrist.
func FistLandmarks() HandLandmarks {
	return HandFromTips(
		Point3D{X: 0.5, Y: 0.5},
		[5]Point3D{
			{X: 0.55, Y: 0.55},
			{X: 0.52, Y: 0.56},
			{X: 0.50, Y: 0.57},
			{X: 0.47, Y: 0.56},
			{X: 0.44, Y: 0.55},
		},
	)
}

// PointingLandmarks returns a hand with only the index finger raised.
func PointingLandmarks() HandLandmarks {
	return HandFromTips(
		Point3D{X: 0.5, Y: 0.8},
		[5]Point3D{
			{X: 0.60, Y: 0.82},
			{X: 0.50, Y: 0.40},
			{X: 0.48, Y: 0.85},
			{X: 0.45, Y: 0.86},
			{X: 0.42, Y: 0.85},
		},
	)
}
