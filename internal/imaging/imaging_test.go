package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// pngBytes renders a solid-color PNG of the given size.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDimensions(t *testing.T) {
	data := pngBytes(t, 40, 112, color.White)

	w, h, err := Dimensions(data)
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if w != 40 || h != 112 {
		t.Errorf("expected 40x112, got %dx%d", w, h)
	}
}

func TestDimensions_CorruptBytes(t *testing.T) {
	if _, _, err := Dimensions([]byte("not an image")); err == nil {
		t.Error("expected error for corrupt bytes")
	}
	if _, _, err := Dimensions(nil); err == nil {
		t.Error("expected error for empty bytes")
	}
}

func TestAspectRatio(t *testing.T) {
	cases := []struct {
		w, h int
		want float64
	}{
		{100, 280, 2.8},
		{100, 100, 1.0},
		{200, 100, 0.5},
		{0, 100, 0},
	}
	for _, tc := range cases {
		if got := AspectRatio(tc.w, tc.h); got != tc.want {
			t.Errorf("AspectRatio(%d, %d) = %v, want %v", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestGrayTensor(t *testing.T) {
	data := pngBytes(t, 100, 60, color.White)
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	tensor := GrayTensor(img, 28)
	if len(tensor) != 28*28 {
		t.Fatalf("expected %d values, got %d", 28*28, len(tensor))
	}
	for i, v := range tensor {
		if v < 0 || v > 1 {
			t.Fatalf("pixel %d out of [0,1]: %v", i, v)
		}
	}
	// A white image stays white after grayscale conversion.
	if tensor[0] < 0.99 {
		t.Errorf("expected white pixel near 1.0, got %v", tensor[0])
	}
}

func TestGrayTensor_BlackImage(t *testing.T) {
	data := pngBytes(t, 50, 50, color.Black)
	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	tensor := GrayTensor(img, 28)
	if tensor[14*28+14] > 0.01 {
		t.Errorf("expected black pixel near 0.0, got %v", tensor[14*28+14])
	}
}
