package textdiff

import (
	"github.com/otiai10/gosseract/v2"
)

// tesseractExtractor runs a fresh Tesseract client per image. Client
// construction is cheap next to an OCR pass, and a per-call client keeps
// this safe for concurrent tasks without locking.
type tesseractExtractor struct{}

func (e *tesseractExtractor) ExtractText(imagePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return "", err
	}
	return client.Text()
}
