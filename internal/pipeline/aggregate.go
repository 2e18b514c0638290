package pipeline

import (
	"sort"
	"time"

	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/pkg/models"
)

// Aggregate reduces the completed outcome set to a run summary plus the
// results and failures, sorted by target for stable reports. It is called
// exactly once, after the scheduler has drained; no task ever touches the
// summary concurrently. With zero successes it returns an explicit
// no-results error instead of a meaningless average.
func Aggregate(runID string, outcomes []models.TaskOutcome, started, finished time.Time) (models.RunSummary, []models.ComparisonResult, []models.Failure, error) {
	results := make([]models.ComparisonResult, 0, len(outcomes))
	failures := make([]models.Failure, 0)

	for _, o := range outcomes {
		switch {
		case o.Result != nil:
			results = append(results, *o.Result)
		case o.Failure != nil:
			failures = append(failures, *o.Failure)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Target < results[j].Target })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Target < failures[j].Target })

	summary := models.RunSummary{
		RunID:                runID,
		TotalURLs:            len(results),
		FailureCount:         len(failures),
		TotalDurationSeconds: finished.Sub(started).Seconds(),
		StartedAt:            started,
		FinishedAt:           finished,
	}

	var totalDuration float64
	for _, r := range results {
		if r.Matched {
			summary.MatchedCount++
		} else {
			summary.MismatchedCount++
		}
		totalDuration += r.DurationSeconds
	}

	if len(results) == 0 {
		return summary, results, failures, apperrors.NewNoResultsError("no comparisons succeeded", nil)
	}
	summary.AverageDurationSeconds = totalDuration / float64(len(results))
	return summary, results, failures, nil
}
