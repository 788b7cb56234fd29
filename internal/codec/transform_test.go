package codec

import (
	"image"
	"image/color"
	"testing"
)

// mark paints a single red pixel at (0,0) of a white image so transforms
// can be verified by where the pixel lands.
func mark(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func isRed(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r > 0x8000 && g < 0x8000 && b < 0x8000
}

func TestApplyOrientationRotations(t *testing.T) {
	src := mark(4, 2)

	tests := []struct {
		name        string
		orientation int
		wantW       int
		wantH       int
		redX        int
		redY        int
	}{
		{"normal", 1, 4, 2, 0, 0},
		{"flip horizontal", 2, 4, 2, 3, 0},
		{"rotate 180", 3, 4, 2, 3, 1},
		{"flip vertical", 4, 4, 2, 0, 1},
		{"rotate 90 cw", 6, 2, 4, 1, 0},
		{"rotate 90 ccw", 8, 2, 4, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ApplyOrientation(src, tt.orientation)
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Fatalf("dimensions %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
			if !isRed(out, tt.redX, tt.redY) {
				t.Errorf("marker pixel not at (%d,%d)", tt.redX, tt.redY)
			}
		})
	}
}

func TestApplyOrientationUnknownIsIdentity(t *testing.T) {
	src := mark(3, 3)
	if got := ApplyOrientation(src, 0); got != src {
		t.Error("orientation 0 should return source unchanged")
	}
	if got := ApplyOrientation(src, 9); got != src {
		t.Error("orientation 9 should return source unchanged")
	}
}

func TestClampWidth(t *testing.T) {
	src := mark(100, 50)

	out := ClampWidth(src, 40)
	if out.Bounds().Dx() != 40 {
		t.Errorf("width = %d, want 40", out.Bounds().Dx())
	}
	if out.Bounds().Dy() != 20 {
		t.Errorf("height = %d, want 20 (aspect ratio kept)", out.Bounds().Dy())
	}

	if got := ClampWidth(src, 200); got != src {
		t.Error("image narrower than maxWidth should pass through")
	}
	if got := ClampWidth(src, 0); got != src {
		t.Error("maxWidth 0 should disable clamping")
	}
}

func TestOrientationFromNilPayload(t *testing.T) {
	if got := Orientation(nil); got != 1 {
		t.Errorf("Orientation(nil) = %d, want 1", got)
	}
	if got := Orientation([]byte{0x00}); got != 1 {
		t.Errorf("Orientation(garbage) = %d, want 1", got)
	}
}
