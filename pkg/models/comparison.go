package models

import "time"

// ArtifactPaths points at the three files produced for one target: the two
// captures and the rendered difference image.
type ArtifactPaths struct {
	Baseline  string `json:"baseline"`
	Candidate string `json:"candidate"`
	Diff      string `json:"diff"`
}

// TextComparison carries the optional OCR-based text comparison between the
// two captures of a target.
type TextComparison struct {
	BaselineText  string  `json:"baseline_text"`
	CandidateText string  `json:"candidate_text"`
	EditDistance  int     `json:"edit_distance"`
	WordErrorRate float64 `json:"word_error_rate"`
	Error         string  `json:"error,omitempty"`
}

// ComparisonResult is the terminal record of one successfully compared
// target. Matched is true iff not a single pixel differed beyond the
// configured threshold.
type ComparisonResult struct {
	Target           string          `json:"target"`
	Matched          bool            `json:"matched"`
	DiffPixelCount   int             `json:"diff_pixel_count"`
	PixelDiffPercent float32         `json:"pixel_diff_percent"`
	MaxRGBDiffs      [3]int          `json:"max_rgb_diffs"`
	DurationSeconds  float64         `json:"duration_seconds"`
	Artifacts        ArtifactPaths   `json:"artifacts"`
	Text             *TextComparison `json:"text,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
}

// Failure is the terminal record of a target whose attempts were exhausted.
type Failure struct {
	Target   string `json:"target"`
	Reason   string `json:"reason"`
	Attempts int    `json:"attempts"`
}

// TaskOutcome is either a ComparisonResult or a Failure, never both.
type TaskOutcome struct {
	Result  *ComparisonResult `json:"result,omitempty"`
	Failure *Failure          `json:"failure,omitempty"`
}

// Succeeded reports whether the outcome carries a comparison result.
func (o TaskOutcome) Succeeded() bool {
	return o.Result != nil
}

// Target returns the target the outcome belongs to, whichever branch is set.
func (o TaskOutcome) Target() string {
	if o.Result != nil {
		return o.Result.Target
	}
	if o.Failure != nil {
		return o.Failure.Target
	}
	return ""
}

// RunSummary aggregates a completed run. It is computed once, after the
// scheduler has drained, from the full outcome set.
type RunSummary struct {
	RunID                  string    `json:"run_id"`
	TotalURLs              int       `json:"total_urls"`
	MatchedCount           int       `json:"matched_count"`
	MismatchedCount        int       `json:"mismatched_count"`
	FailureCount           int       `json:"failure_count"`
	AverageDurationSeconds float64   `json:"average_duration_seconds"`
	TotalDurationSeconds   float64   `json:"total_duration_seconds"`
	StartedAt              time.Time `json:"started_at"`
	FinishedAt             time.Time `json:"finished_at"`
}
