// Package report defines the data handed to the report renderer and ships
// the built-in JSON renderer plus the terminal summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/pkg/models"
)

// Report is everything a renderer needs: the aggregate summary, the
// ordered comparison results, and the targets that exhausted their retries.
type Report struct {
	Summary  models.RunSummary         `json:"summary"`
	Results  []models.ComparisonResult `json:"results"`
	Failures []models.Failure          `json:"failures"`
}

// Renderer turns a finished run into a human-readable document. The layout
// of that document is the renderer's business; this package only promises
// the shapes above and that every referenced artifact exists.
type Renderer interface {
	Render(report *Report, runDir string) error
}

// JSONRenderer materializes the report as report.json inside the run
// directory, which is also what the results server reads back.
type JSONRenderer struct{}

func (JSONRenderer) Render(report *Report, runDir string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("failed to marshal report", err)
	}
	path := filepath.Join(runDir, "report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// Load reads a report back from a run directory.
func Load(runDir string) (*Report, error) {
	path := filepath.Join(runDir, "report.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no report at %s", path), err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("corrupt report at %s", path), err)
	}
	return &report, nil
}

// PrintSummary writes the run summary to w for interactive use.
func PrintSummary(w io.Writer, report *Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	s := report.Summary
	fmt.Fprintf(w, "\nRun %s\n", s.RunID)
	fmt.Fprintf(w, "  Compared:   %d page(s)\n", s.TotalURLs)
	fmt.Fprintf(w, "  Matched:    %s\n", green(s.MatchedCount))
	fmt.Fprintf(w, "  Mismatched: %s\n", red(s.MismatchedCount))
	fmt.Fprintf(w, "  Failed:     %s\n", yellow(s.FailureCount))
	fmt.Fprintf(w, "  Average:    %.2fs per page\n", s.AverageDurationSeconds)
	fmt.Fprintf(w, "  Wall clock: %s\n", time.Duration(s.TotalDurationSeconds*float64(time.Second)).Round(time.Millisecond))

	if len(report.Failures) > 0 {
		fmt.Fprintf(w, "\nFailed targets:\n")
		for _, f := range report.Failures {
			fmt.Fprintf(w, "  - %s after %d attempt(s): %s\n", f.Target, f.Attempts, f.Reason)
		}
	}
	for _, r := range report.Results {
		if r.Matched {
			continue
		}
		fmt.Fprintf(w, "  %s %s: %d pixel(s) differ (%.2f%%)\n", red("≠"), r.Target, r.DiffPixelCount, r.PixelDiffPercent)
	}
}
