package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Decode decodes JPEG, PNG, GIF, or WebP image bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Dimensions reads the image header and returns width and height without
// decoding pixel data.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// AspectRatio is height over width. Garment photos are usually portrait, so
// ratios above 1 mean tall images.
func AspectRatio(width, height int) float64 {
	if width <= 0 {
		return 0
	}
	return float64(height) / float64(width)
}

// GrayTensor resizes img to size x size, converts to single-channel
// grayscale, and normalizes pixel intensities to [0, 1]. The result is laid
// out row-major, length size*size.
func GrayTensor(img image.Image, size int) []float64 {
	scaled := resize.Resize(uint(size), uint(size), img, resize.Bilinear)

	out := make([]float64, size*size)
	bounds := scaled.Bounds()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px := scaled.At(bounds.Min.X+x, bounds.Min.Y+y)
			gray := color.GrayModel.Convert(px).(color.Gray)
			out[y*size+x] = float64(gray.Y) / 255.0
		}
	}
	return out
}
