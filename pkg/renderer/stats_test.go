package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAverageLuminance(t *testing.T) {
	primaries := image.NewRGBA(image.Rect(0, 0, 2, 2))
	primaries.Set(0, 0, color.RGBA{255, 0, 0, 255})
	primaries.Set(1, 0, color.RGBA{0, 255, 0, 255})
	primaries.Set(0, 1, color.RGBA{0, 0, 255, 255})
	primaries.Set(1, 1, color.RGBA{0, 0, 0, 255})

	white := image.NewRGBA(image.Rect(0, 0, 3, 1))
	for x := 0; x < 3; x++ {
		white.Set(x, 0, color.White)
	}

	tests := []struct {
		name     string
		img      image.Image
		expected float64
	}{
		// Rec. 709 weights sum to one, so the three primaries plus black average 0.25
		{"Primaries", primaries, 0.25},
		{"White", white, 1},
		{"Black", image.NewRGBA(image.Rect(0, 0, 4, 4)), 0},
		{"Empty", image.NewRGBA(image.Rect(0, 0, 0, 0)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateAverageLuminance(tt.img), 1e-4)
		})
	}
}

func TestTonemapLuminanceIsStable(t *testing.T) {
	// Doubling every deposit (twice the photons) leaves the displayed image unchanged
	values := make([]float32, 4*4*3)
	for i := range values {
		values[i] = float32(i%7) * 0.5
	}
	doubled := make([]float32, len(values))
	for i, v := range values {
		doubled[i] = 2 * v
	}

	a := CalculateAverageLuminance(Tonemap(values, 4, 4, 0.6, 2.2))
	b := CalculateAverageLuminance(Tonemap(doubled, 4, 4, 0.6, 2.2))
	assert.Greater(t, a, 0.0)
	assert.InDelta(t, a, b, 1e-9)
}
