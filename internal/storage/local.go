// Package storage lays out run artifacts on disk and optionally publishes
// them to blob storage.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/internal/input"
	"go-visual-diff/pkg/models"
)

const (
	DirBaseline  = "baseline"
	DirCandidate = "candidate"
	DirDiff      = "diff"

	ReportFileName = "report.json"
)

// RunStore owns the artifact directory of a single run: three parallel
// directories (baseline, candidate, diff) with one file per target, keyed
// by the target's sanitized identifier.
type RunStore struct {
	root string
	ext  string
}

// NewRunStore creates the per-run directory tree under baseDir/runID.
func NewRunStore(baseDir, runID, ext string) (*RunStore, error) {
	root := filepath.Join(baseDir, runID)
	for _, dir := range []string{DirBaseline, DirCandidate, DirDiff} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("failed to create artifact directory %s", dir), err)
		}
	}
	return &RunStore{root: root, ext: ext}, nil
}

// Root returns the run directory.
func (s *RunStore) Root() string {
	return s.root
}

// ReportPath returns where the run's report document lives.
func (s *RunStore) ReportPath() string {
	return filepath.Join(s.root, ReportFileName)
}

// ArtifactPaths derives the three artifact file paths for a target. The
// mapping is deterministic, so every retry of a target overwrites the same
// files.
func (s *RunStore) ArtifactPaths(target string) models.ArtifactPaths {
	name := input.Sanitize(target) + s.ext
	return models.ArtifactPaths{
		Baseline:  filepath.Join(s.root, DirBaseline, name),
		Candidate: filepath.Join(s.root, DirCandidate, name),
		Diff:      filepath.Join(s.root, DirDiff, name),
	}
}

// VerifyArtifacts checks that every path referenced by the results actually
// exists on disk. The report renderer is entitled to assume they do.
func (s *RunStore) VerifyArtifacts(results []models.ComparisonResult) error {
	for _, r := range results {
		for _, path := range []string{r.Artifacts.Baseline, r.Artifacts.Candidate, r.Artifacts.Diff} {
			if _, err := os.Stat(path); err != nil {
				return apperrors.NewInternalError(
					fmt.Sprintf("artifact %s referenced by %s is missing", path, r.Target), err)
			}
		}
	}
	return nil
}
