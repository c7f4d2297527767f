package drawing

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Canvas is a Surface backed by a BGRA OpenCV matrix. Cleared pixels are
// fully transparent. It is safe for concurrent use.
type Canvas struct {
	mu     sync.Mutex
	mat    gocv.Mat
	width  int
	height int
}

// NewCanvas creates a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		mat:    gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC4),
		width:  width,
		height: height,
	}
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return c
}

// Size implements Surface.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// DrawLine implements Surface.
func (c *Canvas) DrawLine(from, to image.Point, s Stroke) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gocv.Line(&c.mat, from, to, s.Color, s.Width)
}

// Clear implements Surface.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mat.SetTo(gocv.NewScalar(0, 0, 0, 0))
}

// PNG encodes the canvas with its alpha channel.
func (c *Canvas) PNG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, c.mat)
	if err != nil {
		return nil, fmt.Errorf("encode canvas: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Close releases the matrix.
func (c *Canvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mat.Close()
}
