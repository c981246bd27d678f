package loaders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DrawLabel writes text into the bottom-left corner of img on a dark band
func DrawLabel(img *image.RGBA, text string, size float64) error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	pad := 4
	bandHeight := metrics.Height.Ceil() + 2*pad
	bounds := img.Bounds()
	band := image.Rect(bounds.Min.X, bounds.Max.Y-bandHeight, bounds.Max.X, bounds.Max.Y)
	draw.Draw(img, band, image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Over)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(bounds.Min.X+pad, band.Min.Y+pad+metrics.Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return nil
}
