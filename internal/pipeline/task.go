package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"go-visual-diff/internal/capture"
	"go-visual-diff/internal/imaging"
	"go-visual-diff/internal/logger"
	"go-visual-diff/internal/storage"
	"go-visual-diff/internal/textdiff"
	"go-visual-diff/pkg/models"
)

// Comparator executes the capture-and-compare unit of work for one target:
// capture both environments under a single pooled resource, normalize,
// diff, and persist the diff artifact.
type Comparator struct {
	Capturer      capture.Capturer
	Store         *storage.RunStore
	Text          *textdiff.Comparer // nil disables text comparison
	BaselineBase  string
	CandidateBase string
	Threshold     float64
	Format        imaging.Format
}

// Compare runs one attempt for the target. Every attempt overwrites the
// same artifact paths, so a failed attempt leaves nothing behind that the
// next one could accidentally merge with.
func (c *Comparator) Compare(ctx context.Context, target string) (*models.ComparisonResult, error) {
	start := time.Now()
	paths := c.Store.ArtifactPaths(target)

	// One pooled resource covers both captures; released before the CPU
	// work so another task can start rendering while this one diffs.
	session, err := c.Capturer.AcquireSession(ctx)
	if err != nil {
		return nil, err
	}
	err = session.Capture(ctx, c.BaselineBase+target, paths.Baseline)
	if err == nil {
		err = session.Capture(ctx, c.CandidateBase+target, paths.Candidate)
	}
	session.Release()
	if err != nil {
		return nil, err
	}

	baseline, err := imaging.Load(paths.Baseline)
	if err != nil {
		return nil, err
	}
	candidate, err := imaging.Load(paths.Candidate)
	if err != nil {
		return nil, err
	}

	normBase, normCand, err := imaging.Normalize(baseline, candidate)
	if err != nil {
		return nil, err
	}
	diff, err := imaging.Compare(normBase, normCand, c.Threshold)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(paths.Diff, diff.Image, c.Format); err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		Target:           target,
		Matched:          diff.NumDiffPixels == 0,
		DiffPixelCount:   diff.NumDiffPixels,
		PixelDiffPercent: diff.PixelDiffPercent,
		MaxRGBDiffs:      diff.MaxRGBDiffs,
		Artifacts:        paths,
		Timestamp:        start,
	}

	if c.Text != nil {
		result.Text = c.Text.Compare(paths.Baseline, paths.Candidate)
	}

	result.DurationSeconds = time.Since(start).Seconds()
	logger.WithFields(logrus.Fields{
		"target":      target,
		"diff_pixels": result.DiffPixelCount,
		"matched":     result.Matched,
		"duration":    result.DurationSeconds,
	}).Info("Compared target")
	return result, nil
}
