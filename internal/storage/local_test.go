package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-visual-diff/pkg/models"
)

func TestNewRunStore_CreatesLayout(t *testing.T) {
	base := t.TempDir()
	store, err := NewRunStore(base, "run-1", ".png")
	require.NoError(t, err)

	for _, dir := range []string{DirBaseline, DirCandidate, DirDiff} {
		info, err := os.Stat(filepath.Join(base, "run-1", dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Equal(t, filepath.Join(base, "run-1"), store.Root())
	assert.Equal(t, filepath.Join(base, "run-1", ReportFileName), store.ReportPath())
}

func TestArtifactPaths_SanitizedAndParallel(t *testing.T) {
	store, err := NewRunStore(t.TempDir(), "run-1", ".png")
	require.NoError(t, err)

	paths := store.ArtifactPaths("/products/item-42")
	assert.Equal(t, filepath.Join(store.Root(), DirBaseline, "_products_item_42.png"), paths.Baseline)
	assert.Equal(t, filepath.Join(store.Root(), DirCandidate, "_products_item_42.png"), paths.Candidate)
	assert.Equal(t, filepath.Join(store.Root(), DirDiff, "_products_item_42.png"), paths.Diff)

	// Deterministic across calls, so retries overwrite rather than fork.
	assert.Equal(t, paths, store.ArtifactPaths("/products/item-42"))
}

func TestVerifyArtifacts(t *testing.T) {
	store, err := NewRunStore(t.TempDir(), "run-1", ".png")
	require.NoError(t, err)

	paths := store.ArtifactPaths("/a")
	result := models.ComparisonResult{Target: "/a", Artifacts: paths}

	require.Error(t, store.VerifyArtifacts([]models.ComparisonResult{result}))

	for _, p := range []string{paths.Baseline, paths.Candidate, paths.Diff} {
		require.NoError(t, os.WriteFile(p, []byte("img"), 0o644))
	}
	assert.NoError(t, store.VerifyArtifacts([]models.ComparisonResult{result}))
}
