package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestNewHandLandmarks(t *testing.T) {
	t.Run("accepts exactly 21 points", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		points[IndexTip] = Point3D{X: 0.4, Y: 0.3}

		hand, err := NewHandLandmarks(points, "Left", 0.8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand.IndexTip() != points[IndexTip] {
			t.Errorf("IndexTip() = %v, want %v", hand.IndexTip(), points[IndexTip])
		}
		if hand.Handedness != "Left" || hand.Score != 0.8 {
			t.Errorf("metadata not preserved: %s %f", hand.Handedness, hand.Score)
		}
	})

	tests := []struct {
		name  string
		count int
	}{
		{name: "empty", count: 0},
		{name: "too few", count: 20},
		{name: "too many", count: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHandLandmarks(make([]Point3D, tt.count), "Right", 1)
			if !errors.Is(err, ErrLandmarkCount) {
				t.Errorf("expected ErrLandmarkCount, got %v", err)
			}
		})
	}
}

func TestDecodeFrame(t *testing.T) {
	t.Run("round trips through EncodeFrame", func(t *testing.T) {
		hands := []HandLandmarks{OpenPalmLandmarks(), FistLandmarks()}

		data, err := EncodeFrame(hands)
		if err != nil {
			t.Fatalf("EncodeFrame() error = %v", err)
		}

		decoded, err := DecodeFrame(data)
		if err != nil {
			t.Fatalf("DecodeFrame() error = %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("expected 2 hands, got %d", len(decoded))
		}
		if decoded[1].Points != hands[1].Points {
			t.Error("second hand points changed in transit")
		}
	})

	t.Run("empty hand list is a valid frame", func(t *testing.T) {
		hands, err := DecodeFrame([]byte(`{"hands":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("short hand is rejected", func(t *testing.T) {
		_, err := DecodeFrame([]byte(`{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}]}]}`))
		if !errors.Is(err, ErrLandmarkCount) {
			t.Errorf("expected ErrLandmarkCount, got %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := DecodeFrame([]byte(`{"hands":`)); err == nil {
			t.Error("expected error for truncated JSON")
		}
	})
}

func TestHandFromTips(t *testing.T) {
	wrist := Point3D{X: 0.5, Y: 0.5}
	tips := [5]Point3D{
		{X: 0.1, Y: 0.1}, {X: 0.2, Y: 0.2}, {X: 0.3, Y: 0.3}, {X: 0.4, Y: 0.4}, {X: 0.6, Y: 0.6},
	}

	hand := HandFromTips(wrist, tips)

	if hand.Wrist() != wrist {
		t.Errorf("wrist = %v, want %v", hand.Wrist(), wrist)
	}
	for i, idx := range FingerTips {
		if hand.Points[idx] != tips[i] {
			t.Errorf("tip %d = %v, want %v", idx, hand.Points[idx], tips[i])
		}
	}

	// Joints sit between the wrist and the tip.
	mcp := hand.Points[IndexMCP]
	wantX := 0.5 + 0.35*(0.2-0.5)
	if math.Abs(mcp.X-wantX) > epsilon {
		t.Errorf("index MCP X = %f, want %f", mcp.X, wantX)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{ThumbsUpLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestMediaPipeDetector_Args(t *testing.T) {
	d := &MediaPipeDetector{config: DefaultConfig(), script: "hands_service.py"}

	args := d.args()
	want := []string{
		"hands_service.py",
		"--max-hands", "2",
		"--model-complexity", "1",
		"--min-detection-confidence", "0.7",
		"--min-tracking-confidence", "0.5",
	}

	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestHandConnections_InRange(t *testing.T) {
	for _, c := range HandConnections {
		if c[0] < 0 || c[0] >= NumLandmarks || c[1] < 0 || c[1] >= NumLandmarks {
			t.Errorf("connection %v out of range", c)
		}
	}
}
