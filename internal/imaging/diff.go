package imaging

import (
	"fmt"
	"image"
	"image/color"

	apperrors "go-visual-diff/internal/errors"
)

// DefaultThreshold ignores minor anti-aliasing noise: a pixel pair must be
// at least this far apart on the normalized 0..1 distance scale to count.
const DefaultThreshold = 0.1

// DiffResult holds the outcome of a pixel comparison between two
// normalized images.
type DiffResult struct {
	// NumDiffPixels is the count of pixels whose distance exceeded the
	// threshold.
	NumDiffPixels int
	// PixelDiffPercent is NumDiffPixels as a percentage of all pixels.
	PixelDiffPercent float32
	// MaxRGBDiffs contains the maximum 8-bit delta seen per R/G/B channel
	// across all differing pixels.
	MaxRGBDiffs [3]int
	// Image renders the comparison: differing pixels hot pink over a faded
	// copy of the baseline.
	Image *image.RGBA
}

var highlight = color.RGBA{R: 255, G: 105, B: 180, A: 255}

// Compare computes the per-pixel difference between two images of identical
// dimensions. It is pure: the same inputs and threshold always produce the
// same result. Images of unequal dimensions are a caller bug, reported as a
// dimension mismatch and never retried.
func Compare(a, b *image.RGBA, threshold float64) (*DiffResult, error) {
	if a.Bounds().Dx() != b.Bounds().Dx() || a.Bounds().Dy() != b.Bounds().Dy() {
		return nil, apperrors.NewDimensionMismatchError(
			fmt.Sprintf("images must be normalized before comparison: %dx%d vs %dx%d",
				a.Bounds().Dx(), a.Bounds().Dy(), b.Bounds().Dx(), b.Bounds().Dy()), nil)
	}

	width := a.Bounds().Dx()
	height := a.Bounds().Dy()
	result := &DiffResult{
		Image: image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	minA := a.Bounds().Min
	minB := b.Bounds().Min
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pa := a.RGBAAt(minA.X+x, minA.Y+y)
			pb := b.RGBAAt(minB.X+x, minB.Y+y)

			if pixelDistance(pa, pb) > threshold {
				result.NumDiffPixels++
				trackMaxRGBDiffs(pa, pb, &result.MaxRGBDiffs)
				result.Image.SetRGBA(x, y, highlight)
			} else {
				result.Image.SetRGBA(x, y, fade(pa))
			}
		}
	}

	total := width * height
	if total > 0 {
		result.PixelDiffPercent = float32(result.NumDiffPixels) * 100 / float32(total)
	}
	return result, nil
}

// pixelDistance returns a normalized 0..1 perceptual distance between two
// pixels. The color term blends a luminance-weighted delta with the largest
// single-channel delta; a pure alpha change is scored on its own so that
// transparency shifts are not masked by identical color bytes.
func pixelDistance(p, q color.RGBA) float64 {
	dr := absDelta(p.R, q.R)
	dg := absDelta(p.G, q.G)
	db := absDelta(p.B, q.B)
	da := absDelta(p.A, q.A)

	luma := 0.299*dr + 0.587*dg + 0.114*db
	channelMax := dr
	if dg > channelMax {
		channelMax = dg
	}
	if db > channelMax {
		channelMax = db
	}

	dist := 0.5*luma + 0.5*channelMax
	if da > dist {
		dist = da
	}
	return dist
}

func absDelta(x, y uint8) float64 {
	if x > y {
		return float64(x-y) / 255
	}
	return float64(y-x) / 255
}

func trackMaxRGBDiffs(p, q color.RGBA, diffs *[3]int) {
	chans := [3]int{
		absInt(int(p.R) - int(q.R)),
		absInt(int(p.G) - int(q.G)),
		absInt(int(p.B) - int(q.B)),
	}
	for i, d := range chans {
		if d > diffs[i] {
			diffs[i] = d
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// fade pushes a matching pixel two thirds of the way toward white so the
// highlighted differences stand out in the rendered diff.
func fade(p color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(255 - (255-int(p.R))/3),
		G: uint8(255 - (255-int(p.G))/3),
		B: uint8(255 - (255-int(p.B))/3),
		A: 255,
	}
}
