// Package input reads the list of page paths a run compares and derives
// the stable identifiers their artifacts are named after.
package input

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	apperrors "go-visual-diff/internal/errors"
)

// ListTargets reads the target file and returns the ordered, deduplicated
// list of page paths. A ".csv" file contributes its first column (an
// optional header row named path/url/target is skipped); any other file is
// treated as one target per line, with blank lines and '#' comments
// ignored. An unreadable or empty list aborts the whole run.
func ListTargets(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("failed to read targets file %s", path), err)
	}

	var raw []string
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		raw, err = parseCSV(data)
		if err != nil {
			return nil, err
		}
	} else {
		raw = parseLines(data)
	}

	targets := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		target := normalizeTarget(r)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, apperrors.NewInputError(fmt.Sprintf("targets file %s contains no targets", path), nil)
	}
	return targets, nil
}

func parseCSV(data []byte) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewInputError("failed to parse targets CSV", err)
	}

	out := make([]string, 0, len(records))
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		cell := strings.TrimSpace(record[0])
		if i == 0 && isHeaderCell(cell) {
			continue
		}
		out = append(out, cell)
	}
	return out, nil
}

func isHeaderCell(cell string) bool {
	switch strings.ToLower(cell) {
	case "path", "url", "target":
		return true
	}
	return false
}

func parseLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// normalizeTarget trims whitespace and guarantees a leading separator so
// targets join cleanly onto base URLs.
func normalizeTarget(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	if !strings.HasPrefix(t, "/") {
		t = "/" + t
	}
	return t
}

// Sanitize derives the file-name identifier of a target: every
// non-alphanumeric rune becomes an underscore. The mapping is deterministic
// so retries of the same target always overwrite the same artifacts.
func Sanitize(target string) string {
	var b strings.Builder
	b.Grow(len(target))
	for _, r := range target {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
