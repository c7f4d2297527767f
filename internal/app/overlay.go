package app

import (
	"image"
	"image/color"

	"github.com/ayusman/mudra/internal/detector"
	"gocv.io/x/gocv"
)

// Overlay styling for the live view.
var (
	ConnectorColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	LandmarkColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

const (
	connectorThickness = 4
	landmarkRadius     = 3
	landmarkThickness  = -1 // filled
)

// DrawOverlay draws the skeleton of every hand onto frame, connectors first
// and landmarks on top.
func DrawOverlay(frame *gocv.Mat, hands []detector.HandLandmarks) {
	w, h := frame.Cols(), frame.Rows()

	for i := range hands {
		pts := scalePoints(&hands[i], w, h)

		for _, c := range detector.HandConnections {
			gocv.Line(frame, pts[c[0]], pts[c[1]], ConnectorColor, connectorThickness)
		}
		for _, p := range pts {
			gocv.Circle(frame, p, landmarkRadius, LandmarkColor, landmarkThickness)
		}
	}
}

func scalePoints(hand *detector.HandLandmarks, w, h int) [detector.NumLandmarks]image.Point {
	var pts [detector.NumLandmarks]image.Point
	for i, p := range hand.Points {
		pts[i] = image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}
	return pts
}
