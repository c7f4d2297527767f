package app

import (
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"gocv.io/x/gocv"
)

// runPipeline reads camera frames at the camera's frame rate until stop is
// closed. Each frame is run through the detector, handled, annotated with
// the hand skeletons and published as JPEG for the live overlay.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.processFrame()
		}
	}
}

// processFrame handles a single camera frame. A frame that cannot be read or
// detected is dropped without side effects.
func (a *App) processFrame() {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.logger.Debug("error reading frame", "error", err)
		return
	}
	defer frame.Close()

	var hands []detector.HandLandmarks
	if a.detector != nil {
		hands, err = a.detector.Detect(frame)
		if err != nil {
			a.logger.Warn("error detecting hands", "error", err)
			return
		}
		a.HandleResults(hands)
	}

	DrawOverlay(frame, hands)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.logger.Warn("error encoding frame", "error", err)
		return
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	a.publishFrame(data)
}

func (a *App) publishFrame(data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jpeg = data
	a.jpegSeq++
}

// LatestFrame returns the most recent annotated JPEG and its sequence
// number. The sequence grows by one per published frame; data is nil while
// the camera is off.
func (a *App) LatestFrame() ([]byte, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.jpeg, a.jpegSeq
}
