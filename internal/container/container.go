// Package container wires the application's dependency graph.
package container

import (
	"fmt"

	"go-visual-diff/internal/capture"
	"go-visual-diff/internal/config"
	"go-visual-diff/internal/imaging"
	"go-visual-diff/internal/pipeline"
	"go-visual-diff/internal/report"
	"go-visual-diff/internal/storage"
	"go-visual-diff/internal/textdiff"
)

// Container holds all application dependencies for a comparison run.
type Container struct {
	config   *config.Config
	capturer capture.Capturer
	runner   *pipeline.Runner
}

// NewContainer builds the dependency graph: capture provider, optional OCR
// comparer, optional artifact publisher, renderer, and the pipeline runner.
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.ValidateRun(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	format, err := imaging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	capturer, err := capture.NewChromeCapturer(capture.Options{
		Tabs:            cfg.Concurrency,
		ViewportWidth:   cfg.ViewportWidth,
		ViewportHeight:  cfg.ViewportHeight,
		Timeout:         cfg.CaptureTimeout,
		SettleDelay:     cfg.SettleDelay,
		ConsentSelector: cfg.ConsentSelector,
		Quality:         format.ScreenshotQuality(),
	})
	if err != nil {
		return nil, err
	}

	var text *textdiff.Comparer
	if cfg.OCREnabled {
		text = textdiff.NewComparer()
	}

	var publisher storage.Publisher
	if cfg.PublishEnabled() {
		publisher, err = storage.NewAzurePublisher(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer)
		if err != nil {
			capturer.Close()
			return nil, fmt.Errorf("failed to configure Azure publishing: %w", err)
		}
	}

	runner := pipeline.NewRunner(cfg, capturer, report.JSONRenderer{}, publisher, text)

	return &Container{
		config:   cfg,
		capturer: capturer,
		runner:   runner,
	}, nil
}

// Runner returns the pipeline runner.
func (c *Container) Runner() *pipeline.Runner {
	return c.runner
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases the capture resources.
func (c *Container) Close() error {
	return c.capturer.Close()
}
