package gesture

import "github.com/ayusman/mudra/internal/detector"

const (
	// ThumbExtensionRatio is how far the thumb tip must reach, relative to
	// the index tip, for a raised thumb to count as ThumbsUp.
	ThumbExtensionRatio = 0.8

	// FistRadius bounds every tip-to-wrist distance of a Fist.
	FistRadius = 0.1
)

type rule struct {
	gesture Gesture
	match   func(h *detector.HandLandmarks) bool
}

// rules are evaluated in order and the first match wins. ThumbsUp must
// precede OpenPalm.
var rules = []rule{
	{ThumbsUp, isThumbsUp},
	{OpenPalm, isOpenPalm},
	{Fist, isFist},
	{Pointing, isPointing},
}

// Classify returns the first gesture whose rule matches the hand, or Unknown.
// The hand is trusted as delivered; a nil hand is Unknown.
func Classify(h *detector.HandLandmarks) Gesture {
	if h == nil {
		return Unknown
	}
	for _, r := range rules {
		if r.match(h) {
			return r.gesture
		}
	}
	return Unknown
}

func isThumbsUp(h *detector.HandLandmarks) bool {
	wrist := h.Points[detector.Wrist]
	thumb := h.Points[detector.ThumbTip]
	index := h.Points[detector.IndexTip]

	if !Above(thumb, wrist) {
		return false
	}
	if !allBelow(h, wrist, detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip) {
		return false
	}
	return Distance(thumb, wrist) > ThumbExtensionRatio*Distance(index, wrist)
}

func isOpenPalm(h *detector.HandLandmarks) bool {
	wrist := h.Points[detector.Wrist]
	for _, tip := range detector.FingerTips {
		if !Above(h.Points[tip], wrist) {
			return false
		}
	}
	return true
}

func isFist(h *detector.HandLandmarks) bool {
	wrist := h.Points[detector.Wrist]
	for _, tip := range detector.FingerTips {
		if Distance(h.Points[tip], wrist) >= FistRadius {
			return false
		}
	}
	return true
}

func isPointing(h *detector.HandLandmarks) bool {
	wrist := h.Points[detector.Wrist]
	return Above(h.Points[detector.IndexTip], wrist) &&
		allBelow(h, wrist, detector.MiddleTip, detector.RingTip, detector.PinkyTip)
}

func allBelow(h *detector.HandLandmarks, ref detector.Point3D, idx ...int) bool {
	for _, i := range idx {
		if !Below(h.Points[i], ref) {
			return false
		}
	}
	return true
}
