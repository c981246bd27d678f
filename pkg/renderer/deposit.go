package renderer

import (
	"math"

	"github.com/df07/go-lumen2d/pkg/core"
)

// ColorPhoton deposits radiance along the segment ray(0)..ray(t) into the
// accumulator and returns the number of samples taken.
//
// The visible part of the segment is sampled about SamplingRatioPerPixelCovered
// times per pixel it crosses, each sample weighted by steps/samples so the
// total deposited is independent of the ratio. Consecutive samples landing in
// the same pixel are skipped. When the photon travels through an absorbing
// medium its contribution is attenuated by the full segment length afterwards.
func (rc *RenderContext) ColorPhoton(ray core.Ray, t float64, color core.Color, contribution *core.Contribution, worldAttenuation float64) int {
	samples := 0

	tmin, tmax, ok := rc.canvas.Bounds.Intersect(ray)
	if ok {
		tstart := math.Max(tmin, 0)
		tend := math.Min(tmax, t)
		if tend > tstart {
			samples = rc.depositSegment(ray, tstart, tend, color, contribution, worldAttenuation)
		}
	}

	if contribution.Absorbing() {
		contribution.R *= math.Exp(-t * contribution.AbsorptionR)
		contribution.G *= math.Exp(-t * contribution.AbsorptionG)
		contribution.B *= math.Exp(-t * contribution.AbsorptionB)
	}

	rc.coloredPixels += samples
	return samples
}

func (rc *RenderContext) depositSegment(ray core.Ray, tstart, tend float64, color core.Color, contribution *core.Contribution, worldAttenuation float64) int {
	length := tend - tstart
	steps := length / rc.canvas.PixelWorldSize
	samples := max(int(math.Floor(steps*rc.globals.SamplingRatioPerPixelCovered)), 1)
	strength := steps / float64(samples)
	sampleStep := length / float64(samples)
	absorbing := contribution.Absorbing()

	prevX, prevY := -1, -1
	for i := 0; i < samples; i++ {
		var tt float64
		if rc.globals.UseStratifiedSampling {
			tt = tstart + sampleStep*float64(i) + sampleStep*rc.sampler.Get1D()
		} else {
			tt = tstart + length*rc.sampler.Get1D()
		}

		x, y, inside := rc.canvas.PixelAt(ray.At(tt))
		if !inside || (x == prevX && y == prevY) {
			continue
		}
		prevX, prevY = x, y

		fr, fg, fb := 1.0, 1.0, 1.0
		if rc.modulation != nil {
			fr, fg, fb = rc.modulation.At(x, y)
		}
		if absorbing {
			fr *= math.Exp(-tt * contribution.AbsorptionR)
			fg *= math.Exp(-tt * contribution.AbsorptionG)
			fb *= math.Exp(-tt * contribution.AbsorptionB)
		}
		weight := strength * math.Exp(-tt*worldAttenuation)

		rc.accumulator.AddPixel(x, y,
			color.X()*contribution.R*fr*weight,
			color.Y()*contribution.G*fg*weight,
			color.Z()*contribution.B*fb*weight,
		)
	}
	return samples
}
