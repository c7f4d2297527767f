package detector

import (
	"encoding/json"
	"fmt"
)

// Frame is the JSON payload a detection provider emits per frame, both from
// the MediaPipe service and from the browser page.
type Frame struct {
	Hands []WireHand `json:"hands"`
}

// WireHand is a hand as encoded on the wire; Points is a plain list so that
// its length can be checked.
type WireHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

// DecodeFrame parses a provider payload into hands. A hand with the wrong
// number of points fails the whole frame with ErrLandmarkCount.
func DecodeFrame(data []byte) ([]HandLandmarks, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}

	hands := make([]HandLandmarks, 0, len(f.Hands))
	for i, wh := range f.Hands {
		h, err := NewHandLandmarks(wh.Points, wh.Handedness, wh.Score)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i, err)
		}
		hands = append(hands, h)
	}
	return hands, nil
}

// EncodeFrame is the inverse of DecodeFrame.
func EncodeFrame(hands []HandLandmarks) ([]byte, error) {
	f := Frame{Hands: make([]WireHand, len(hands))}
	for i := range hands {
		f.Hands[i] = WireHand{
			Points:     hands[i].Points[:],
			Handedness: hands[i].Handedness,
			Score:      hands[i].Score,
		}
	}
	return json.Marshal(f)
}
