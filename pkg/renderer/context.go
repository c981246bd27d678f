package renderer

import (
	"fmt"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/material"
	"github.com/df07/go-lumen2d/pkg/scene"
)

// RenderContext is everything one worker needs to fire photons: its own
// scene and sampler, plus the shared accumulator. It is not safe for
// concurrent use.
type RenderContext struct {
	globals     Globals
	canvas      Canvas
	scene       *scene.Scene
	accumulator *Accumulator
	modulation  *Modulation // nil when the background is off
	sampler     core.Sampler

	coloredPixels int
}

// NewRenderContext creates a context drawing into accumulator, which must
// match the canvas size in g
func NewRenderContext(g Globals, s *scene.Scene, accumulator *Accumulator, modulation *Modulation, sampler core.Sampler) (*RenderContext, error) {
	if accumulator.Width != g.CanvasWidth || accumulator.Height != g.CanvasHeight {
		return nil, fmt.Errorf("accumulator is %dx%d, canvas is %dx%d",
			accumulator.Width, accumulator.Height, g.CanvasWidth, g.CanvasHeight)
	}
	if modulation != nil && (modulation.Width != g.CanvasWidth || modulation.Height != g.CanvasHeight) {
		return nil, fmt.Errorf("background is %dx%d, canvas is %dx%d",
			modulation.Width, modulation.Height, g.CanvasWidth, g.CanvasHeight)
	}
	return &RenderContext{
		globals:     g,
		canvas:      NewCanvas(g),
		scene:       s,
		accumulator: accumulator,
		modulation:  modulation,
		sampler:     sampler,
	}, nil
}

// Canvas returns the world-to-pixel mapping in use
func (rc *RenderContext) Canvas() Canvas {
	return rc.canvas
}

// TakeColoredPixels returns the deposit samples taken since the last call and resets the count
func (rc *RenderContext) TakeColoredPixels() int {
	n := rc.coloredPixels
	rc.coloredPixels = 0
	return n
}

// EmitPhoton fires one photon from an importance-sampled emitter and follows
// it for up to LightBounces intersections
func (rc *RenderContext) EmitPhoton() {
	rc.tracePhoton(rc.emit())
}

func (rc *RenderContext) emit() material.Photon {
	primitive := rc.scene.Emitter(rc.sampler)
	emitter := primitive.Material().(material.Emissive)
	return emitter.Photon(primitive, rc.sampler)
}

// tracePhoton runs the bounce loop and returns the final contribution
func (rc *RenderContext) tracePhoton(photon material.Photon) core.Contribution {
	ray := photon.Ray
	color := photon.Spectrum.RGB()
	contribution := core.NeutralContribution()
	worldAttenuation := rc.globals.WorldAttenuation

	for bounce := 0; bounce < rc.globals.LightBounces; bounce++ {
		hit, ok := rc.scene.Intersect(ray)
		if !ok {
			// the ray is left as is, so later bounces retry the same query
			continue
		}

		if bounce >= rc.globals.SkipBounce {
			rc.ColorPhoton(ray, hit.T, color, &contribution, worldAttenuation)
		}

		hit.Primitive.Material().Scatter(&ray, material.Interaction{
			T:                hit.T,
			Normal:           hit.Normal,
			Wavelength:       photon.Spectrum.Wavelength,
			WorldAttenuation: worldAttenuation,
		}, &contribution, rc.sampler)

		contribution.ClampNegative()
		if contribution.IsZero() {
			break
		}
	}

	return contribution
}
