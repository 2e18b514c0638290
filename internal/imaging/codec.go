package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	apperrors "go-visual-diff/internal/errors"
)

// Format selects the on-disk encoding of capture and diff artifacts.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

const jpegQuality = 90

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatJPEG:
		return Format(s), nil
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported image format %q", s), nil)
	}
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// ScreenshotQuality maps the format onto the capture provider's quality
// scale, where 100 selects lossless PNG and anything lower selects JPEG.
func (f Format) ScreenshotQuality() int {
	if f == FormatJPEG {
		return jpegQuality
	}
	return 100
}

// Load opens and decodes an image file.
func Load(path string) (image.Image, error) {
	reader, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("failed to open image %s", path), err)
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("failed to decode image %s", path), err)
	}
	return img, nil
}

// Save encodes an image to disk in the given format.
func Save(path string, img image.Image, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	switch format {
	case FormatJPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to encode %s", path), err)
	}
	return nil
}
