// Package drawing turns open-palm fingertip motion into freehand strokes on
// a persistent surface.
package drawing

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// Default stroke style.
const (
	DefaultStrokeWidth = 4
	DefaultStrokeColor = "#2563eb"
)

// ErrInvalidColor is returned for colors that are not #rrggbb.
var ErrInvalidColor = errors.New("invalid stroke color")

// Stroke is the style of a drawn segment.
type Stroke struct {
	Width int
	Color color.RGBA
}

// DefaultStroke returns the 4px blue pen.
func DefaultStroke() Stroke {
	c, _ := ParseHexColor(DefaultStrokeColor)
	return Stroke{Width: DefaultStrokeWidth, Color: c}
}

// Surface is a pixel drawing target that keeps its content between frames.
type Surface interface {
	Size() (width, height int)
	DrawLine(from, to image.Point, s Stroke)
	Clear()
}

// ParseHexColor parses an opaque "#rrggbb" color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 || len(hex) == len(s) {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
