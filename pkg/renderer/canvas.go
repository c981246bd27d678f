package renderer

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/geometry"
)

// Canvas maps world coordinates onto the pixel grid. The visible world is
// centered on the origin; world +y maps to increasing row index.
type Canvas struct {
	Width, Height  int
	PixelWorldSize float64
	Bounds         geometry.CanvasBounds
}

// NewCanvas creates the canvas mapping described by g
func NewCanvas(g Globals) Canvas {
	return Canvas{
		Width:          g.CanvasWidth,
		Height:         g.CanvasHeight,
		PixelWorldSize: g.PixelWorldSize(),
		Bounds:         geometry.NewCanvasBounds(g.WorldWidth(), g.WorldSize),
	}
}

// PixelAt returns the pixel containing world point p. ok is false outside the canvas.
func (c Canvas) PixelAt(p core.Vec2) (x, y int, ok bool) {
	u := (p.X() + c.Bounds.Width/2) / c.Bounds.Width
	v := (p.Y() + c.Bounds.Height/2) / c.Bounds.Height
	x = int(math.Floor(u * float64(c.Width)))
	y = int(math.Floor(v * float64(c.Height)))
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return x, y, false
	}
	return x, y, true
}

// PixelCenter returns the world position of the center of pixel (x, y)
func (c Canvas) PixelCenter(x, y int) core.Vec2 {
	return core.NewVec2(
		(float64(x)+0.5)/float64(c.Width)*c.Bounds.Width-c.Bounds.Width/2,
		(float64(y)+0.5)/float64(c.Height)*c.Bounds.Height-c.Bounds.Height/2,
	)
}
