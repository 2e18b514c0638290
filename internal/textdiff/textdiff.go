// Package textdiff extracts the visible text of both captures with OCR and
// scores how far apart they are. It is a secondary signal next to the pixel
// diff: a page can be pixel-different but textually identical (font
// rendering drift) or the other way around.
package textdiff

import (
	"strings"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"

	"go-visual-diff/internal/logger"
	"go-visual-diff/pkg/models"
)

// TextExtractor turns a stored capture into plain text.
type TextExtractor interface {
	ExtractText(imagePath string) (string, error)
}

// Comparer extracts and scores the text of a baseline/candidate pair.
type Comparer struct {
	extractor TextExtractor
}

// NewComparer builds a Comparer backed by the Tesseract extractor.
func NewComparer() *Comparer {
	return &Comparer{extractor: &tesseractExtractor{}}
}

// NewComparerWithExtractor injects an extractor, mainly for tests.
func NewComparerWithExtractor(extractor TextExtractor) *Comparer {
	return &Comparer{extractor: extractor}
}

// Compare OCRs both captures and returns edit-distance and word-error-rate
// scores. Extraction problems are recorded on the comparison rather than
// failing the task: text comparison is advisory, the pixel diff is the
// verdict.
func (c *Comparer) Compare(baselinePath, candidatePath string) *models.TextComparison {
	comparison := &models.TextComparison{}

	baseText, err := c.extractor.ExtractText(baselinePath)
	if err != nil {
		logger.WithError(err).WithField("path", baselinePath).Warn("OCR extraction failed")
		comparison.Error = "baseline OCR failed: " + err.Error()
		return comparison
	}
	candText, err := c.extractor.ExtractText(candidatePath)
	if err != nil {
		logger.WithError(err).WithField("path", candidatePath).Warn("OCR extraction failed")
		comparison.Error = "candidate OCR failed: " + err.Error()
		return comparison
	}

	comparison.BaselineText = baseText
	comparison.CandidateText = candText
	comparison.EditDistance = levenshtein.Distance(baseText, candText)
	comparison.WordErrorRate = wordErrorRate(baseText, candText)
	return comparison
}

// wordErrorRate scores the candidate text against the baseline over
// whitespace tokens. An empty baseline is scored 0 when the candidate is
// empty too, otherwise 1.
func wordErrorRate(baseline, candidate string) float64 {
	ref := strings.Fields(baseline)
	hyp := strings.Fields(candidate)
	if len(ref) == 0 {
		if len(hyp) == 0 {
			return 0
		}
		return 1
	}

	// wer.WER returns the rate and the raw edit count; only the rate
	// matters here, the character-level distance is reported separately.
	rate, _ := wer.WER(ref, hyp)
	return rate
}
