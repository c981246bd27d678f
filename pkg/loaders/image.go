package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// LoadImage loads a PNG, JPEG, BMP or TIFF image
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects the format from the file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return img, nil
}

// LoadBackground loads an image and resamples it to width × height
func LoadBackground(filename string, width, height int) (*image.RGBA, error) {
	src, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return Resize(src, width, height), nil
}

// Resize resamples src to width × height with bilinear filtering
func Resize(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveImage writes img to filename, choosing the encoder by extension
// (.png, .tif/.tiff or .bmp). Parent directories are created as needed.
func SaveImage(filename string, img image.Image) (err error) {
	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		encode = png.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}
	case ".bmp":
		encode = bmp.Encode
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filename, cerr)
		}
	}()

	if err := encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return nil
}
