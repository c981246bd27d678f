package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-lumen2d/pkg/core"
	"github.com/df07/go-lumen2d/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGlobals is a 10×10 world on a 100×100 canvas, so one pixel is 0.1 units
func testGlobals() Globals {
	g := DefaultGlobals()
	g.CanvasWidth = 100
	g.CanvasHeight = 100
	g.WorldSize = 10
	g.Seed = 1
	return g
}

func newTestContext(t *testing.T, g Globals, s *scene.Scene) (*RenderContext, *Accumulator) {
	t.Helper()
	if s == nil {
		s = scene.New(nil)
	}
	accum := NewAccumulator(g.CanvasWidth, g.CanvasHeight)
	rc, err := NewRenderContext(g, s, accum, nil, core.NewSeededSampler(g.Seed))
	require.NoError(t, err)
	return rc, accum
}

// channelSum adds up one channel of the accumulator
func channelSum(a *Accumulator, channel int) float64 {
	sum := 0.0
	values := a.Snapshot()
	for i := channel; i < len(values); i += 3 {
		sum += float64(values[i])
	}
	return sum
}

func litPixels(a *Accumulator) int {
	n := 0
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			if r, g, b := a.Pixel(x, y); r != 0 || g != 0 || b != 0 {
				n++
			}
		}
	}
	return n
}

func TestColorPhotonEnergyIndependentOfSamplingRatio(t *testing.T) {
	// Horizontal ray across the full canvas: 10 units = 100 pixel steps
	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))
	color := core.NewColor(2, 1, 0.5)

	for _, ratio := range []float64{0.1, 0.25, 0.5, 1} {
		g := testGlobals()
		g.SamplingRatioPerPixelCovered = ratio
		rc, accum := newTestContext(t, g, nil)

		contribution := core.NeutralContribution()
		samples := rc.ColorPhoton(ray, 100, color, &contribution, 0)

		assert.Equal(t, int(math.Floor(100*ratio)), samples, "ratio %v", ratio)
		assert.InDelta(t, 200, channelSum(accum, 0), 1e-3, "ratio %v", ratio)
		assert.InDelta(t, 100, channelSum(accum, 1), 1e-3, "ratio %v", ratio)
		assert.InDelta(t, 50, channelSum(accum, 2), 1e-3, "ratio %v", ratio)
	}
}

func TestColorPhotonSkipsRepeatedPixel(t *testing.T) {
	g := testGlobals()
	g.SamplingRatioPerPixelCovered = 10
	rc, accum := newTestContext(t, g, nil)

	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))
	contribution := core.NeutralContribution()
	samples := rc.ColorPhoton(ray, 100, core.NewColor(1, 1, 1), &contribution, 0)

	// 1000 stratified samples over 100 pixels: consecutive samples in the
	// same pixel are dropped, so each pixel receives exactly one deposit
	assert.Equal(t, 1000, samples)
	assert.Equal(t, 100, litPixels(accum))
	for x := 0; x < 100; x++ {
		r, _, _ := accum.Pixel(x, 50)
		assert.InDelta(t, 0.1, r, 1e-6, "pixel %d", x)
	}
}

func TestColorPhotonMinimumOneSample(t *testing.T) {
	g := testGlobals()
	g.SamplingRatioPerPixelCovered = 0.01
	rc, accum := newTestContext(t, g, nil)

	ray := core.NewRay(core.NewVec2(0.05, 0.05), core.NewVec2(1, 0))
	contribution := core.NeutralContribution()
	samples := rc.ColorPhoton(ray, 0.5, core.NewColor(1, 1, 1), &contribution, 0)

	assert.Equal(t, 1, samples)
	assert.Equal(t, 1, litPixels(accum))
	// the single sample carries the whole segment: 5 pixel steps
	assert.InDelta(t, 5, channelSum(accum, 0), 1e-4)
}

func TestColorPhotonClipsToCanvas(t *testing.T) {
	tests := []struct {
		name    string
		ray     core.Ray
		t       float64
		samples int
		energy  float64
	}{
		{
			name:    "Outside",
			ray:     core.NewRay(core.NewVec2(20, 20), core.NewVec2(1, 0)),
			t:       50,
			samples: 0,
		},
		{
			name:    "Pointing away",
			ray:     core.NewRay(core.NewVec2(-8, 0), core.NewVec2(-1, 0)),
			t:       50,
			samples: 0,
		},
		{
			name:    "Hit before reaching the canvas",
			ray:     core.NewRay(core.NewVec2(-10, 0.05), core.NewVec2(1, 0)),
			t:       3,
			samples: 0,
		},
		{
			name:    "Starts inside",
			ray:     core.NewRay(core.NewVec2(0, 0.05), core.NewVec2(1, 0)),
			t:       100,
			samples: 15, // floor(50 steps * 0.3)
			energy:  50,
		},
		{
			name:    "Enters from outside",
			ray:     core.NewRay(core.NewVec2(-10, 0.05), core.NewVec2(1, 0)),
			t:       7,
			samples: 6, // 2 units visible = 20 steps
			energy:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, accum := newTestContext(t, testGlobals(), nil)
			contribution := core.NeutralContribution()

			samples := rc.ColorPhoton(tt.ray, tt.t, core.NewColor(1, 1, 1), &contribution, 0)

			assert.Equal(t, tt.samples, samples)
			assert.InDelta(t, tt.energy, channelSum(accum, 0), 1e-3)
		})
	}
}

func TestColorPhotonAbsorptionDecay(t *testing.T) {
	rc, _ := newTestContext(t, testGlobals(), nil)

	contribution := core.NeutralContribution()
	contribution.AbsorptionR = 0.5
	contribution.AbsorptionG = 0.25

	ray := core.NewRay(core.NewVec2(0, 0), core.NewVec2(0, 1))
	rc.ColorPhoton(ray, 2, core.NewColor(1, 1, 1), &contribution, 0)

	assert.InDelta(t, math.Exp(-1), contribution.R, 1e-12)
	assert.InDelta(t, math.Exp(-0.5), contribution.G, 1e-12)
	assert.Equal(t, 1.0, contribution.B)
}

func TestColorPhotonAbsorptionDecayOutsideCanvas(t *testing.T) {
	rc, accum := newTestContext(t, testGlobals(), nil)

	contribution := core.NeutralContribution()
	contribution.SetAbsorption(1)

	ray := core.NewRay(core.NewVec2(50, 50), core.NewVec2(1, 0))
	samples := rc.ColorPhoton(ray, 3, core.NewColor(1, 1, 1), &contribution, 0)

	assert.Zero(t, samples)
	assert.Zero(t, litPixels(accum))
	assert.InDelta(t, math.Exp(-3), contribution.R, 1e-12)
}

func TestColorPhotonAbsorbingMediumDimsDeposits(t *testing.T) {
	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))
	g := testGlobals()
	g.SamplingRatioPerPixelCovered = 1

	rc, clean := newTestContext(t, g, nil)
	c := core.NeutralContribution()
	rc.ColorPhoton(ray, 10, core.NewColor(1, 1, 1), &c, 0)

	rc, murky := newTestContext(t, g, nil)
	c = core.NeutralContribution()
	c.SetAbsorption(0.3)
	rc.ColorPhoton(ray, 10, core.NewColor(1, 1, 1), &c, 0)

	assert.Less(t, channelSum(murky, 0), channelSum(clean, 0))

	// deposits fall off along the ray
	first, _, _ := murky.Pixel(5, 50)
	last, _, _ := murky.Pixel(95, 50)
	assert.Greater(t, first, last)
}

func TestColorPhotonWorldAttenuation(t *testing.T) {
	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))

	rc, accum := newTestContext(t, testGlobals(), nil)
	c := core.NeutralContribution()
	rc.ColorPhoton(ray, 10, core.NewColor(1, 1, 1), &c, 0.2)

	// the medium dims deposits but leaves the photon's contribution alone
	assert.Less(t, channelSum(accum, 0), 100.0)
	assert.Equal(t, core.NeutralContribution(), c)
}

func TestColorPhotonUniformSampling(t *testing.T) {
	g := testGlobals()
	g.UseStratifiedSampling = false
	rc, accum := newTestContext(t, g, nil)

	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))
	c := core.NeutralContribution()
	samples := rc.ColorPhoton(ray, 100, core.NewColor(1, 1, 1), &c, 0)

	assert.Equal(t, 30, samples)
	// repeated pixels are dropped, so at most the full segment is deposited
	assert.LessOrEqual(t, channelSum(accum, 0), 100.0+1e-3)
	assert.Greater(t, channelSum(accum, 0), 0.0)
}

func TestColorPhotonBackgroundModulation(t *testing.T) {
	g := testGlobals()
	accum := NewAccumulator(g.CanvasWidth, g.CanvasHeight)
	modulation := &Modulation{Width: 100, Height: 100, factors: make([]float64, 100*100*3)}
	for i := range modulation.factors {
		modulation.factors[i] = 2
	}
	rc, err := NewRenderContext(g, scene.New(nil), accum, modulation, core.NewSeededSampler(3))
	require.NoError(t, err)

	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))
	c := core.NeutralContribution()
	rc.ColorPhoton(ray, 100, core.NewColor(1, 1, 1), &c, 0)

	assert.InDelta(t, 200, channelSum(accum, 0), 1e-3)
}

func TestColoredPixelsCounter(t *testing.T) {
	rc, _ := newTestContext(t, testGlobals(), nil)
	ray := core.NewRay(core.NewVec2(-5, 0.05), core.NewVec2(1, 0))

	c := core.NeutralContribution()
	rc.ColorPhoton(ray, 100, core.NewColor(1, 1, 1), &c, 0)
	rc.ColorPhoton(ray, 100, core.NewColor(1, 1, 1), &c, 0)

	assert.Equal(t, 60, rc.TakeColoredPixels())
	assert.Zero(t, rc.TakeColoredPixels())
}
