package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Distance is the planar distance between two landmarks. Z is ignored.
func Distance(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Above reports whether p is higher in the frame than ref. Image Y grows
// downward, so higher means a smaller Y.
func Above(p, ref detector.Point3D) bool {
	return p.Y < ref.Y
}

// Below reports whether p is lower in the frame than ref.
func Below(p, ref detector.Point3D) bool {
	return p.Y > ref.Y
}
