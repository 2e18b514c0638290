package cmd

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-visual-diff/internal/config"
)

func findCommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "visualdiff", root.Use)
	findCommand(t, root, "run")
	findCommand(t, root, "serve")
}

func TestRunCommandFlags(t *testing.T) {
	run := findCommand(t, NewRootCommand(), "run")
	for _, name := range []string{
		"config", "targets", "baseline", "candidate", "out", "format",
		"concurrency", "max-attempts", "retry-delay", "threshold",
		"viewport-width", "viewport-height", "consent-selector", "ocr",
	} {
		assert.NotNil(t, run.Flags().Lookup(name), "flag %q", name)
	}
}

func TestApplyRunFlagsOnlyChangedFlagsOverride(t *testing.T) {
	run := findCommand(t, NewRootCommand(), "run")
	require.NoError(t, run.Flags().Set("baseline", "http://stage.example"))
	require.NoError(t, run.Flags().Set("concurrency", "9"))
	require.NoError(t, run.Flags().Set("retry-delay", "250ms"))

	cfg := &config.Config{
		BaselineBase:  "http://env.example",
		CandidateBase: "http://prod.example",
		Concurrency:   4,
		Threshold:     0.1,
	}
	err := applyRunFlags(run, cfg, runFlagValues{
		baselineBase: "http://stage.example",
		concurrency:  9,
		retryDelay:   "250ms",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://stage.example", cfg.BaselineBase)
	assert.Equal(t, 9, cfg.Concurrency)
	assert.Equal(t, "250ms", cfg.RetryDelay.String())
	// Untouched flags keep whatever the environment provided.
	assert.Equal(t, "http://prod.example", cfg.CandidateBase)
	assert.Equal(t, 0.1, cfg.Threshold)
}

func TestApplyRunFlagsRejectsBadRetryDelay(t *testing.T) {
	run := findCommand(t, NewRootCommand(), "run")
	require.NoError(t, run.Flags().Set("retry-delay", "soon"))

	err := applyRunFlags(run, &config.Config{}, runFlagValues{retryDelay: "soon"})
	assert.Error(t, err)
}

func TestServeCommandRequiresRunDir(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"serve"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--run-dir")
}
