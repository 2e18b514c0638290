package imaging

import (
	"image/color"
	"path/filepath"
	"testing"

	apperrors "go-visual-diff/internal/errors"
)

func TestCompare_IdenticalImages(t *testing.T) {
	a := solidImage(8, 8, color.RGBA{R: 120, G: 80, B: 40, A: 255})
	b := solidImage(8, 8, color.RGBA{R: 120, G: 80, B: 40, A: 255})

	result, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if result.NumDiffPixels != 0 {
		t.Errorf("expected 0 diff pixels, got %d", result.NumDiffPixels)
	}
	if result.PixelDiffPercent != 0 {
		t.Errorf("expected 0%%, got %g", result.PixelDiffPercent)
	}
}

func TestCompare_SinglePixelDifference(t *testing.T) {
	a := solidImage(8, 8, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	b := solidImage(8, 8, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	b.SetRGBA(3, 4, color.RGBA{A: 255}) // black pixel, well past any threshold

	result, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if result.NumDiffPixels != 1 {
		t.Errorf("expected exactly 1 diff pixel, got %d", result.NumDiffPixels)
	}
	if got := result.Image.RGBAAt(3, 4); got != highlight {
		t.Errorf("expected highlighted pixel at (3,4), got %v", got)
	}
	if result.MaxRGBDiffs != [3]int{255, 255, 255} {
		t.Errorf("expected max RGB diffs 255/255/255, got %v", result.MaxRGBDiffs)
	}
}

func TestCompare_ThresholdIgnoresNoise(t *testing.T) {
	a := solidImage(4, 4, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	// 10/255 per channel is typical anti-aliasing jitter, distance ~0.039.
	b := solidImage(4, 4, color.RGBA{R: 210, G: 210, B: 210, A: 255})

	result, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if result.NumDiffPixels != 0 {
		t.Errorf("expected noise below threshold to be ignored, got %d diff pixels", result.NumDiffPixels)
	}

	// The same pair with a zero threshold counts every pixel.
	strict, err := Compare(a, b, 0)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if strict.NumDiffPixels != 16 {
		t.Errorf("expected 16 diff pixels at zero threshold, got %d", strict.NumDiffPixels)
	}
}

func TestCompare_AlphaOnlyDifference(t *testing.T) {
	a := solidImage(2, 2, color.RGBA{R: 50, G: 50, B: 50, A: 255})
	b := solidImage(2, 2, color.RGBA{R: 50, G: 50, B: 50, A: 100})

	result, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if result.NumDiffPixels != 4 {
		t.Errorf("expected alpha change to count on all 4 pixels, got %d", result.NumDiffPixels)
	}
}

func TestCompare_Deterministic(t *testing.T) {
	a := solidImage(6, 6, color.RGBA{R: 10, G: 220, B: 90, A: 255})
	b := solidImage(6, 6, color.RGBA{R: 200, G: 20, B: 90, A: 255})

	first, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	second, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if first.NumDiffPixels != second.NumDiffPixels {
		t.Errorf("diff count not deterministic: %d vs %d", first.NumDiffPixels, second.NumDiffPixels)
	}
	if first.MaxRGBDiffs != second.MaxRGBDiffs {
		t.Errorf("max RGB diffs not deterministic: %v vs %v", first.MaxRGBDiffs, second.MaxRGBDiffs)
	}
}

func TestCompare_DimensionMismatch(t *testing.T) {
	a := solidImage(4, 4, color.RGBA{A: 255})
	b := solidImage(4, 5, color.RGBA{A: 255})

	_, err := Compare(a, b, DefaultThreshold)
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeDimensionMismatch) {
		t.Errorf("expected dimension_mismatch error type, got %v", err)
	}
	if apperrors.IsRetryable(err) {
		t.Error("dimension mismatch must not be retryable")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := solidImage(3, 7, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	path := filepath.Join(dir, "img.png")
	if err := Save(path, img, FormatPNG); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Bounds().Dx() != 3 || loaded.Bounds().Dy() != 7 {
		t.Errorf("expected 3x7, got %dx%d", loaded.Bounds().Dx(), loaded.Bounds().Dy())
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("bmp"); err == nil {
		t.Error("expected error for unsupported format")
	}
	f, err := ParseFormat("jpeg")
	if err != nil {
		t.Fatalf("ParseFormat returned error: %v", err)
	}
	if f.Ext() != ".jpg" {
		t.Errorf("expected .jpg, got %s", f.Ext())
	}
	if FormatPNG.ScreenshotQuality() != 100 {
		t.Errorf("png must map to lossless quality, got %d", FormatPNG.ScreenshotQuality())
	}
}

func TestCompare_FadedBackground(t *testing.T) {
	a := solidImage(2, 2, color.RGBA{A: 255}) // black
	b := solidImage(2, 2, color.RGBA{A: 255})

	result, err := Compare(a, b, DefaultThreshold)
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	got := result.Image.RGBAAt(0, 0)
	if got == (color.RGBA{A: 255}) {
		t.Error("matching pixels should be faded, not copied verbatim")
	}
	if got.A != 255 {
		t.Errorf("diff image must stay opaque, got alpha %d", got.A)
	}
}
