package imaging

import (
	"image"
	"image/color"
	"testing"

	apperrors "go-visual-diff/internal/errors"
)

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestNormalize_Dimensions(t *testing.T) {
	tests := []struct {
		name                  string
		w1, h1, w2, h2        int
		wantWidth, wantHeight int
	}{
		{"identical", 10, 10, 10, 10, 10, 10},
		{"first wider", 20, 10, 10, 10, 20, 10},
		{"second taller", 10, 10, 10, 30, 10, 30},
		{"mixed", 20, 10, 10, 30, 20, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := solidImage(tt.w1, tt.h1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
			b := solidImage(tt.w2, tt.h2, color.RGBA{R: 40, G: 50, B: 60, A: 255})

			na, nb, err := Normalize(a, b)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			for i, img := range []*image.RGBA{na, nb} {
				if img.Bounds().Dx() != tt.wantWidth || img.Bounds().Dy() != tt.wantHeight {
					t.Errorf("image %d: got %dx%d, want %dx%d",
						i, img.Bounds().Dx(), img.Bounds().Dy(), tt.wantWidth, tt.wantHeight)
				}
			}
		})
	}
}

func TestNormalize_PadsWithWhite(t *testing.T) {
	a := solidImage(2, 2, color.RGBA{A: 255}) // black
	b := solidImage(4, 4, color.RGBA{R: 100, G: 100, B: 100, A: 255})

	na, _, err := Normalize(a, b)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	// Original content anchored top-left.
	if got := na.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("expected original pixel at origin, got %v", got)
	}
	// Padded area is white.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := na.RGBAAt(3, 3); got != white {
		t.Errorf("expected white padding, got %v", got)
	}
	if got := na.RGBAAt(3, 0); got != white {
		t.Errorf("expected white padding on right edge, got %v", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	a := solidImage(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	b := solidImage(5, 5, color.RGBA{R: 4, G: 5, B: 6, A: 255})

	na, nb, err := Normalize(a, b)
	if err != nil {
		t.Fatalf("first Normalize returned error: %v", err)
	}
	na2, nb2, err := Normalize(na, nb)
	if err != nil {
		t.Fatalf("second Normalize returned error: %v", err)
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if na.RGBAAt(x, y) != na2.RGBAAt(x, y) {
				t.Fatalf("first image not idempotent at (%d,%d)", x, y)
			}
			if nb.RGBAAt(x, y) != nb2.RGBAAt(x, y) {
				t.Fatalf("second image not idempotent at (%d,%d)", x, y)
			}
		}
	}
}

func TestNormalize_EmptyImage(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	ok := solidImage(2, 2, color.RGBA{A: 255})

	if _, _, err := Normalize(empty, ok); err == nil {
		t.Fatal("expected error for empty first image")
	} else if !apperrors.IsType(err, apperrors.ErrorTypeInput) {
		t.Errorf("expected input error, got %v", err)
	}

	if _, _, err := Normalize(ok, empty); err == nil {
		t.Fatal("expected error for empty second image")
	}

	if _, _, err := Normalize(nil, ok); err == nil {
		t.Fatal("expected error for nil image")
	}
}
