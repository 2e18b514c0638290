package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-visual-diff/internal/capture"
	"go-visual-diff/internal/config"
	apperrors "go-visual-diff/internal/errors"
	"go-visual-diff/internal/imaging"
	"go-visual-diff/internal/input"
	"go-visual-diff/internal/logger"
	"go-visual-diff/internal/report"
	"go-visual-diff/internal/storage"
	"go-visual-diff/internal/textdiff"
	"go-visual-diff/pkg/models"
)

// Runner drives a full comparison run: read targets, fan out the
// retry-wrapped tasks, aggregate, render, and optionally publish.
type Runner struct {
	cfg       *config.Config
	capturer  capture.Capturer
	renderer  report.Renderer
	publisher storage.Publisher // nil disables publishing
	text      *textdiff.Comparer
}

// NewRunner wires a runner. publisher and text may be nil.
func NewRunner(cfg *config.Config, capturer capture.Capturer, renderer report.Renderer, publisher storage.Publisher, text *textdiff.Comparer) *Runner {
	return &Runner{
		cfg:       cfg,
		capturer:  capturer,
		renderer:  renderer,
		publisher: publisher,
		text:      text,
	}
}

// Run executes the pipeline once and returns the report. An unreadable or
// empty target list aborts before anything is scheduled; after that point
// per-target failures never abort the run, and the only error Run itself
// still reports is the explicit no-results condition or a rendering
// problem.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	if err := r.cfg.ValidateRun(); err != nil {
		return nil, apperrors.NewValidationError("invalid run configuration", err)
	}
	format, err := imaging.ParseFormat(r.cfg.Format)
	if err != nil {
		return nil, err
	}

	targets, err := input.ListTargets(r.cfg.TargetsFile)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	store, err := storage.NewRunStore(r.cfg.OutputDir, runID, format.Ext())
	if err != nil {
		return nil, err
	}

	comparator := &Comparator{
		Capturer:      r.capturer,
		Store:         store,
		Text:          r.text,
		BaselineBase:  r.cfg.BaselineBase,
		CandidateBase: r.cfg.CandidateBase,
		Threshold:     r.cfg.Threshold,
		Format:        format,
	}
	task := func(ctx context.Context, target string) models.TaskOutcome {
		return Retry(ctx, target, r.cfg.MaxAttempts, r.cfg.RetryDelay, func(ctx context.Context, attempt int) (*models.ComparisonResult, error) {
			return comparator.Compare(ctx, target)
		})
	}

	logger.WithFields(logrus.Fields{
		"run_id":      runID,
		"targets":     len(targets),
		"concurrency": r.cfg.Concurrency,
		"baseline":    r.cfg.BaselineBase,
		"candidate":   r.cfg.CandidateBase,
	}).Info("Starting comparison run")

	started := time.Now()
	outcomes := NewScheduler(r.cfg.Concurrency).Run(ctx, targets, task)
	finished := time.Now()

	summary, results, failures, aggErr := Aggregate(runID, outcomes, started, finished)
	rep := &report.Report{Summary: summary, Results: results, Failures: failures}

	// The renderer is entitled to existing artifacts; check before calling.
	if err := store.VerifyArtifacts(results); err != nil {
		return rep, err
	}
	if err := r.renderer.Render(rep, store.Root()); err != nil {
		return rep, err
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, store.Root(), runID); err != nil {
			// Publishing is best-effort: the local run directory is complete.
			logger.WithError(err).Error("Failed to publish run artifacts")
		}
	}

	logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"compared": summary.TotalURLs,
		"failed":   summary.FailureCount,
	}).Info("Comparison run finished")
	return rep, aggErr
}
