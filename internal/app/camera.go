package app

import (
	"context"
	"errors"
	"fmt"
)

// Status is the camera status shown to the user.
type Status string

const (
	StatusRunning Status = "Camera Running"
	StatusOff     Status = "Camera Off"
	StatusDenied  Status = "Camera Access Denied!"
)

// ErrNoCamera is returned when the camera is toggled on but none is configured.
var ErrNoCamera = errors.New("no camera configured")

// Status returns the current camera status.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// CameraRunning reports whether the capture pipeline is active.
func (a *App) CameraRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// StartCamera acquires the camera and starts the capture pipeline. Failure
// leaves the app idle with StatusDenied; frame handling keeps working and the
// caller may retry.
func (a *App) StartCamera(ctx context.Context) error {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	return a.startCamera(ctx)
}

func (a *App) startCamera(ctx context.Context) error {
	if a.CameraRunning() {
		return nil
	}
	if a.camera == nil {
		a.setStatus(StatusDenied, ErrNoCamera)
		return ErrNoCamera
	}

	if err := a.acquire(ctx); err != nil {
		err = fmt.Errorf("start camera: %w", err)
		a.logger.Error("camera acquisition failed", "error", err)
		a.setStatus(StatusDenied, err)
		return err
	}

	a.mu.Lock()
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)
	a.mu.Unlock()

	a.logger.Info("camera started", "fps", a.camera.FPS())
	a.setStatus(StatusRunning, nil)
	return nil
}

// acquire opens the camera, giving up when ctx ends. A device that opens
// after ctx has ended is closed again.
func (a *App) acquire(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.camera.Open() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		go func() {
			if err := <-errCh; err == nil {
				a.camera.Close()
			}
		}()
		return ctx.Err()
	}
}

// StopCamera stops the pipeline and releases the camera. It returns once the
// pipeline goroutine has exited.
func (a *App) StopCamera() {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()
	a.stopCamera()
}

func (a *App) stopCamera() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.jpeg = nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		a.logger.Warn("error closing camera", "error", err)
	}

	// A hand that was in view is gone with the camera.
	a.HandleResults(nil)

	a.logger.Info("camera stopped")
	a.setStatus(StatusOff, nil)
}

// ToggleCamera stops a running camera or starts a stopped one, returning the
// resulting status.
func (a *App) ToggleCamera(ctx context.Context) (Status, error) {
	a.lifecycle.Lock()
	defer a.lifecycle.Unlock()

	if a.CameraRunning() {
		a.stopCamera()
		return a.Status(), nil
	}
	err := a.startCamera(ctx)
	return a.Status(), err
}

// LastFailure returns the error behind the most recent StatusDenied.
func (a *App) LastFailure() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastFailure
}

func (a *App) setStatus(s Status, cause error) {
	a.mu.Lock()
	a.status = s
	a.lastFailure = cause
	subs := a.statusSubs
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.SetCameraRunning(s == StatusRunning)
	}
	for _, fn := range subs {
		fn(s)
	}
}
