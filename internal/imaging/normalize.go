package imaging

import (
	"fmt"
	"image"
	"image/draw"

	apperrors "go-visual-diff/internal/errors"
)

// Normalize brings two possibly differently-sized images onto canvases of
// identical dimensions: width = max of the two widths, height = max of the
// two heights. Each input is anchored at the top-left corner and the
// remaining area is filled white, so content that merely changes the page
// length still shows up as a difference instead of being cropped away.
func Normalize(a, b image.Image) (*image.RGBA, *image.RGBA, error) {
	if err := checkNonEmpty(a, "first"); err != nil {
		return nil, nil, err
	}
	if err := checkNonEmpty(b, "second"); err != nil {
		return nil, nil, err
	}

	width := max(a.Bounds().Dx(), b.Bounds().Dx())
	height := max(a.Bounds().Dy(), b.Bounds().Dy())

	return expand(a, width, height), expand(b, width, height), nil
}

func checkNonEmpty(img image.Image, which string) error {
	if img == nil {
		return apperrors.NewInputError(fmt.Sprintf("%s image is nil", which), nil)
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return apperrors.NewInputError(
			fmt.Sprintf("%s image has empty dimensions %dx%d", which, img.Bounds().Dx(), img.Bounds().Dy()), nil)
	}
	return nil
}

// expand copies src onto a white width x height canvas anchored at the
// origin. Equal-size inputs pass through as a plain RGBA conversion, so
// normalizing an already-normalized pair is pixel-identical.
func expand(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	target := image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy())
	draw.Draw(dst, target, src, src.Bounds().Min, draw.Src)
	return dst
}
