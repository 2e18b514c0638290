package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go-visual-diff/internal/config"
	"go-visual-diff/internal/container"
	"go-visual-diff/internal/logger"
	"go-visual-diff/internal/report"
)

// NewRunCommand creates the run command. Settings resolve in three layers:
// environment, then an optional YAML run file, then explicit flags.
func NewRunCommand() *cobra.Command {
	var (
		configFile      string
		targetsFile     string
		baselineBase    string
		candidateBase   string
		outputDir       string
		format          string
		concurrency     int
		maxAttempts     int
		retryDelay      string
		threshold       float64
		viewportWidth   int
		viewportHeight  int
		consentSelector string
		ocrEnabled      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Capture and compare every target page",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.UseTextFormatter()

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			if configFile != "" {
				if err := cfg.ApplyFile(configFile); err != nil {
					return err
				}
			}
			if err := applyRunFlags(cmd, cfg, runFlagValues{
				targetsFile:     targetsFile,
				baselineBase:    baselineBase,
				candidateBase:   candidateBase,
				outputDir:       outputDir,
				format:          format,
				concurrency:     concurrency,
				maxAttempts:     maxAttempts,
				retryDelay:      retryDelay,
				threshold:       threshold,
				viewportWidth:   viewportWidth,
				viewportHeight:  viewportHeight,
				consentSelector: consentSelector,
				ocrEnabled:      ocrEnabled,
			}); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := container.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			rep, err := c.Runner().Run(ctx)
			if rep != nil {
				report.PrintSummary(os.Stdout, rep)
				fmt.Fprintf(os.Stdout, "Run directory: %s\n", filepath.Join(cfg.OutputDir, rep.Summary.RunID))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a YAML run file")
	cmd.Flags().StringVarP(&targetsFile, "targets", "t", "", "file listing the page paths to compare")
	cmd.Flags().StringVar(&baselineBase, "baseline", "", "base URL of the baseline deployment")
	cmd.Flags().StringVar(&candidateBase, "candidate", "", "base URL of the candidate deployment")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "directory that receives run artifacts")
	cmd.Flags().StringVar(&format, "format", "", "screenshot format, png or jpeg")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of pages compared at once")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "attempts per page before it is recorded as failed")
	cmd.Flags().StringVar(&retryDelay, "retry-delay", "", "pause between attempts, e.g. 500ms")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "per-pixel difference threshold in [0,1]")
	cmd.Flags().IntVar(&viewportWidth, "viewport-width", 0, "browser viewport width")
	cmd.Flags().IntVar(&viewportHeight, "viewport-height", 0, "browser viewport height")
	cmd.Flags().StringVar(&consentSelector, "consent-selector", "", "CSS selector of a consent banner button to dismiss")
	cmd.Flags().BoolVar(&ocrEnabled, "ocr", false, "also extract and compare page text")
	return cmd
}

type runFlagValues struct {
	targetsFile     string
	baselineBase    string
	candidateBase   string
	outputDir       string
	format          string
	concurrency     int
	maxAttempts     int
	retryDelay      string
	threshold       float64
	viewportWidth   int
	viewportHeight  int
	consentSelector string
	ocrEnabled      bool
}

// applyRunFlags overlays only the flags the user actually set, so flag
// defaults never clobber environment or file values.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, v runFlagValues) error {
	flags := cmd.Flags()
	if flags.Changed("targets") {
		cfg.TargetsFile = v.targetsFile
	}
	if flags.Changed("baseline") {
		cfg.BaselineBase = v.baselineBase
	}
	if flags.Changed("candidate") {
		cfg.CandidateBase = v.candidateBase
	}
	if flags.Changed("out") {
		cfg.OutputDir = v.outputDir
	}
	if flags.Changed("format") {
		cfg.Format = v.format
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = v.concurrency
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = v.maxAttempts
	}
	if flags.Changed("threshold") {
		cfg.Threshold = v.threshold
	}
	if flags.Changed("viewport-width") {
		cfg.ViewportWidth = v.viewportWidth
	}
	if flags.Changed("viewport-height") {
		cfg.ViewportHeight = v.viewportHeight
	}
	if flags.Changed("consent-selector") {
		cfg.ConsentSelector = v.consentSelector
	}
	if flags.Changed("ocr") {
		cfg.OCREnabled = v.ocrEnabled
	}
	if flags.Changed("retry-delay") {
		parsed, err := time.ParseDuration(v.retryDelay)
		if err != nil || parsed < 0 {
			return fmt.Errorf("invalid --retry-delay %q", v.retryDelay)
		}
		cfg.RetryDelay = parsed
	}
	return nil
}
