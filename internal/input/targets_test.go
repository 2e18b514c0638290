package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "go-visual-diff/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListTargets_PlainFile(t *testing.T) {
	path := writeFile(t, "targets.txt", "/home\nabout\n\n# checkout flow\n/checkout\n")

	targets, err := ListTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home", "/about", "/checkout"}, targets)
}

func TestListTargets_CSV(t *testing.T) {
	path := writeFile(t, "targets.csv", "path,notes\n/home,landing\n/pricing,plans\n")

	targets, err := ListTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home", "/pricing"}, targets)
}

func TestListTargets_CSVWithoutHeader(t *testing.T) {
	path := writeFile(t, "targets.csv", "/home\n/pricing\n")

	targets, err := ListTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home", "/pricing"}, targets)
}

func TestListTargets_Deduplicates(t *testing.T) {
	path := writeFile(t, "targets.txt", "/home\nhome\n/home\n/faq\n")

	targets, err := ListTargets(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home", "/faq"}, targets)
}

func TestListTargets_EmptyFileAborts(t *testing.T) {
	path := writeFile(t, "targets.txt", "\n# nothing here\n")

	_, err := ListTargets(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInput))
}

func TestListTargets_MissingFileAborts(t *testing.T) {
	_, err := ListTargets(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInput))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/home", "_home"},
		{"/products/item-42", "_products_item_42"},
		{"/search?q=café", "_search_q_caf_"},
		{"/", "_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.target), "target %q", tt.target)
	}
}

func TestSanitize_Stable(t *testing.T) {
	assert.Equal(t, Sanitize("/a/b"), Sanitize("/a/b"))
}
