package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestApp_CameraPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cam := capture.NewMockCamera(nil, true)
	f := newFixture(t, cam)

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.ThumbsUpLandmarks()})
	f.app.detector = mock

	status, err := f.app.ToggleCamera(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.True(t, f.app.CameraRunning())

	require.Eventually(t, func() bool {
		data, seq := f.app.LatestFrame()
		return len(data) > 0 && seq >= 2
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, gesture.ThumbsUp, f.app.LastResult().Gesture)
	assert.True(t, f.media.State().Playing)

	status, err = f.app.ToggleCamera(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusOff, status)
	assert.False(t, cam.IsOpen())

	data, _ := f.app.LatestFrame()
	assert.Nil(t, data)
	assert.Equal(t, NoHandLabel, f.app.LastResult().Label, "stopping the camera clears the hand")
}

func TestApp_DetectorErrorDropsFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cam := capture.NewMockCamera(nil, true)
	require.NoError(t, cam.Open())
	defer cam.Close()

	f := newFixture(t, cam)
	mock := detector.NewMockDetector()
	mock.SetError(assert.AnError)
	f.app.detector = mock

	f.app.processFrame()

	assert.Equal(t, 1, mock.Calls())
	assert.Empty(t, f.app.History())
	data, seq := f.app.LatestFrame()
	assert.Nil(t, data)
	assert.Zero(t, seq)
}

func TestDrawOverlay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test")
	}

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	hand := detector.OpenPalmLandmarks()
	DrawOverlay(&frame, []detector.HandLandmarks{hand})

	// Landmarks are drawn last, in red (BGR channel 2).
	wrist := hand.Wrist()
	x, y := int(wrist.X*640), int(wrist.Y*480)
	assert.Equal(t, uint8(255), frame.GetUCharAt(y, x*3+2))
	assert.Equal(t, uint8(0), frame.GetUCharAt(y, x*3+1))

	// Far from the hand nothing is drawn.
	assert.Equal(t, uint8(0), frame.GetUCharAt(5, 5*3+1))
}
