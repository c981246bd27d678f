package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-lumen2d/pkg/core"
)

// Globals holds the render settings shared by every worker. It decodes from
// YAML or JSON files with the same field names.
type Globals struct {
	CanvasWidth  int     `yaml:"canvasWidth" json:"canvasWidth"`   // Accumulator width in pixels
	CanvasHeight int     `yaml:"canvasHeight" json:"canvasHeight"` // Accumulator height in pixels
	WorldSize    float64 `yaml:"worldSize" json:"worldSize"`       // Visible world height; width follows the canvas aspect

	LightBounces int `yaml:"lightBounces" json:"lightBounces"` // Intersections traced per photon
	SkipBounce   int `yaml:"skipBounce" json:"skipBounce"`     // Segments before this bounce are not deposited

	UseStratifiedSampling        bool    `yaml:"useStratifiedSampling" json:"useStratifiedSampling"`
	SamplingRatioPerPixelCovered float64 `yaml:"samplingRatioPerPixelCovered" json:"samplingRatioPerPixelCovered"`
	WorldAttenuation             float64 `yaml:"worldAttenuation" json:"worldAttenuation"`

	PhotonsPerUpdate       int  `yaml:"photonsPerUpdate" json:"photonsPerUpdate"` // Batch size between progress events
	MotionBlur             bool `yaml:"motionBlur" json:"motionBlur"`
	MotionBlurFramePhotons int  `yaml:"motionBlurFramePhotons" json:"motionBlurFramePhotons"` // Photons between scene rebuilds

	DeactivateBackground bool    `yaml:"deactivateBackground" json:"deactivateBackground"`
	BackgroundPower      float64 `yaml:"backgroundPower" json:"backgroundPower"`
	BackgroundImage      string  `yaml:"backgroundImage" json:"backgroundImage"` // Modulation image path

	Workers int   `yaml:"workers" json:"workers"` // 0 = one per CPU
	Seed    int64 `yaml:"seed" json:"seed"`       // 0 = seed from the clock
}

// DefaultGlobals returns sensible default values
func DefaultGlobals() Globals {
	return Globals{
		CanvasWidth:                  800,
		CanvasHeight:                 450,
		WorldSize:                    22,
		LightBounces:                 8,
		SkipBounce:                   0,
		UseStratifiedSampling:        true,
		SamplingRatioPerPixelCovered: 0.3,
		WorldAttenuation:             0,
		PhotonsPerUpdate:             20000,
		MotionBlur:                   false,
		MotionBlurFramePhotons:       50000,
		DeactivateBackground:         true,
		BackgroundPower:              1,
		Workers:                      0,
	}
}

// WorldWidth is the visible world width, WorldSize scaled by the canvas aspect ratio
func (g Globals) WorldWidth() float64 {
	return g.WorldSize * float64(g.CanvasWidth) / float64(g.CanvasHeight)
}

// PixelWorldSize is the world-space edge length of one pixel
func (g Globals) PixelWorldSize() float64 {
	return g.WorldSize / float64(g.CanvasHeight)
}

// BackgroundEnabled reports whether deposits are modulated by a background image
func (g Globals) BackgroundEnabled() bool {
	return !g.DeactivateBackground && g.BackgroundImage != ""
}

// Validate checks that the settings describe a renderable configuration
func (g Globals) Validate() error {
	var errs []error
	if g.CanvasWidth <= 0 || g.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", g.CanvasWidth, g.CanvasHeight))
	}
	if g.WorldSize <= 0 || !core.IsFinite(g.WorldSize) {
		errs = append(errs, fmt.Errorf("worldSize must be positive and finite, got %g", g.WorldSize))
	}
	if g.LightBounces < 0 {
		errs = append(errs, fmt.Errorf("lightBounces must not be negative, got %d", g.LightBounces))
	}
	if g.SkipBounce < 0 {
		errs = append(errs, fmt.Errorf("skipBounce must not be negative, got %d", g.SkipBounce))
	}
	if g.SamplingRatioPerPixelCovered <= 0 || !core.IsFinite(g.SamplingRatioPerPixelCovered) {
		errs = append(errs, fmt.Errorf("samplingRatioPerPixelCovered must be positive and finite, got %g", g.SamplingRatioPerPixelCovered))
	}
	if g.WorldAttenuation < 0 || !core.IsFinite(g.WorldAttenuation) {
		errs = append(errs, fmt.Errorf("worldAttenuation must be finite and not negative, got %g", g.WorldAttenuation))
	}
	if g.PhotonsPerUpdate <= 0 {
		errs = append(errs, fmt.Errorf("photonsPerUpdate must be positive, got %d", g.PhotonsPerUpdate))
	}
	if g.MotionBlur && g.MotionBlurFramePhotons <= 0 {
		errs = append(errs, fmt.Errorf("motionBlurFramePhotons must be positive with motion blur on, got %d", g.MotionBlurFramePhotons))
	}
	if g.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", g.Workers))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid globals: %w", err)
	}
	return nil
}
