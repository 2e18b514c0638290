package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/internal/logger"
	"go-visual-diff/pkg/models"
)

// AttemptFunc is one attempt of the capture-and-compare unit of work.
// Attempts are numbered from 1 and are fully independent: artifacts from a
// failed attempt are overwritten by the next one, never merged.
type AttemptFunc func(ctx context.Context, attempt int) (*models.ComparisonResult, error)

// Retry runs up to maxAttempts sequential attempts for the same target and
// returns the first success. When every attempt fails, the outcome carries
// the last error's reason and the attempt count. Errors that reflect a bug
// rather than a flaky environment stop the loop immediately, because the
// next attempt would fail the same way.
func Retry(ctx context.Context, target string, maxAttempts int, delay time.Duration, attempt AttemptFunc) models.TaskOutcome {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return failureOutcome(target, "run cancelled: "+err.Error(), n-1)
		}

		result, err := attempt(ctx, n)
		if err == nil {
			return models.TaskOutcome{Result: result}
		}
		lastErr = err

		logger.WithError(err).WithFields(logrus.Fields{
			"target":  target,
			"attempt": n,
			"of":      maxAttempts,
		}).Warn("Comparison attempt failed")

		if !apperrors.IsRetryable(err) {
			return failureOutcome(target, err.Error(), n)
		}
		if n < maxAttempts && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return failureOutcome(target, "run cancelled: "+ctx.Err().Error(), n)
			}
		}
	}
	return failureOutcome(target, lastErr.Error(), maxAttempts)
}

func failureOutcome(target, reason string, attempts int) models.TaskOutcome {
	return models.TaskOutcome{Failure: &models.Failure{
		Target:   target,
		Reason:   reason,
		Attempts: attempts,
	}}
}
