package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	PhotonsFired     uint64        // Photons emitted by all workers
	ColoredPixels    uint64        // Deposit samples taken by all workers
	Updates          int           // Progress events received
	Elapsed          time.Duration // Time since the pool started
	AverageLuminance float64       // Of the tonemapped pass image; set by RenderProgressive
	PhotonsPerSecond float64
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += luminance(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
		}
	}
	return total / float64(pixels)
}

func luminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}
