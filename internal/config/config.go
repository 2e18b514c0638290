package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every knob of the pipeline. Values come from the
// environment first; an optional YAML run file and CLI flags override them.
type Config struct {
	// Comparison run settings.
	BaselineBase    string
	CandidateBase   string
	TargetsFile     string
	OutputDir       string
	Format          string
	Concurrency     int
	MaxAttempts     int
	RetryDelay      time.Duration
	Threshold       float64
	CaptureTimeout  time.Duration
	SettleDelay     time.Duration
	ViewportWidth   int
	ViewportHeight  int
	ConsentSelector string
	OCREnabled      bool

	// Optional artifact publishing.
	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	// Results server settings.
	Host           string
	Port           string
	RequestTimeout time.Duration
}

// ServerAddress joins host and port for the results server.
func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// PublishEnabled reports whether Azure publishing is configured.
func (c *Config) PublishEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != "" && c.AzureContainer != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		BaselineBase:    getEnvOrDefault("BASELINE_BASE_URL", ""),
		CandidateBase:   getEnvOrDefault("CANDIDATE_BASE_URL", ""),
		TargetsFile:     getEnvOrDefault("TARGETS_FILE", ""),
		OutputDir:       getEnvOrDefault("OUTPUT_DIR", "runs"),
		Format:          getEnvOrDefault("OUTPUT_FORMAT", "png"),
		Concurrency:     parseIntOrDefault("CONCURRENCY", 4),
		MaxAttempts:     parseIntOrDefault("MAX_ATTEMPTS", 3),
		RetryDelay:      parseDurationOrDefault("RETRY_DELAY", 0),
		Threshold:       parseFloatOrDefault("DIFF_THRESHOLD", 0.1),
		CaptureTimeout:  parseDurationOrDefault("CAPTURE_TIMEOUT", 60*time.Second),
		SettleDelay:     parseDurationOrDefault("SETTLE_DELAY", 2*time.Second),
		ViewportWidth:   parseIntOrDefault("VIEWPORT_WIDTH", 1920),
		ViewportHeight:  parseIntOrDefault("VIEWPORT_HEIGHT", 1080),
		ConsentSelector: getEnvOrDefault("CONSENT_SELECTOR", ""),
		OCREnabled:      parseBoolOrDefault("OCR_ENABLED", false),

		AzureAccountName: getEnvOrDefault("AZURE_ACCOUNT_NAME", ""),
		AzureAccountKey:  getEnvOrDefault("AZURE_ACCOUNT_KEY", ""),
		AzureContainer:   getEnvOrDefault("AZURE_CONTAINER", ""),

		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", cfg.RequestTimeout)
	}
	return cfg, nil
}

// fileConfig is the YAML shape of a run file. Durations are strings so a
// run file can say "90s" or "2m".
type fileConfig struct {
	BaselineBase    *string  `yaml:"baseline_base_url"`
	CandidateBase   *string  `yaml:"candidate_base_url"`
	TargetsFile     *string  `yaml:"targets_file"`
	OutputDir       *string  `yaml:"output_dir"`
	Format          *string  `yaml:"format"`
	Concurrency     *int     `yaml:"concurrency"`
	MaxAttempts     *int     `yaml:"max_attempts"`
	RetryDelay      *string  `yaml:"retry_delay"`
	Threshold       *float64 `yaml:"threshold"`
	CaptureTimeout  *string  `yaml:"capture_timeout"`
	SettleDelay     *string  `yaml:"settle_delay"`
	ViewportWidth   *int     `yaml:"viewport_width"`
	ViewportHeight  *int     `yaml:"viewport_height"`
	ConsentSelector *string  `yaml:"consent_selector"`
	OCREnabled      *bool    `yaml:"ocr_enabled"`
}

// ApplyFile overlays settings from a YAML run file. Unset fields keep their
// current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.BaselineBase != nil {
		c.BaselineBase = *fc.BaselineBase
	}
	if fc.CandidateBase != nil {
		c.CandidateBase = *fc.CandidateBase
	}
	if fc.TargetsFile != nil {
		c.TargetsFile = *fc.TargetsFile
	}
	if fc.OutputDir != nil {
		c.OutputDir = *fc.OutputDir
	}
	if fc.Format != nil {
		c.Format = *fc.Format
	}
	if fc.Concurrency != nil {
		c.Concurrency = *fc.Concurrency
	}
	if fc.MaxAttempts != nil {
		c.MaxAttempts = *fc.MaxAttempts
	}
	if fc.Threshold != nil {
		c.Threshold = *fc.Threshold
	}
	if fc.ViewportWidth != nil {
		c.ViewportWidth = *fc.ViewportWidth
	}
	if fc.ViewportHeight != nil {
		c.ViewportHeight = *fc.ViewportHeight
	}
	if fc.ConsentSelector != nil {
		c.ConsentSelector = *fc.ConsentSelector
	}
	if fc.OCREnabled != nil {
		c.OCREnabled = *fc.OCREnabled
	}
	for _, d := range []struct {
		raw *string
		dst *time.Duration
	}{
		{fc.RetryDelay, &c.RetryDelay},
		{fc.CaptureTimeout, &c.CaptureTimeout},
		{fc.SettleDelay, &c.SettleDelay},
	} {
		if d.raw == nil {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(*d.raw))
		if err != nil {
			return fmt.Errorf("invalid duration %q in config file: %w", *d.raw, err)
		}
		*d.dst = parsed
	}
	return nil
}

// ValidateRun checks everything a comparison run needs. Kept separate from
// LoadFromEnv so the serve command does not demand run settings.
func (c *Config) ValidateRun() error {
	if c.BaselineBase == "" || c.CandidateBase == "" {
		return fmt.Errorf("both baseline and candidate base URLs must be set")
	}
	if c.TargetsFile == "" {
		return fmt.Errorf("targets file must be set")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", c.Concurrency)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1 (got %d)", c.MaxAttempts)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1] (got %g)", c.Threshold)
	}
	if c.Format != "png" && c.Format != "jpeg" {
		return fmt.Errorf("format must be png or jpeg (got %q)", c.Format)
	}
	if c.CaptureTimeout <= 0 {
		return fmt.Errorf("capture timeout must be > 0 (got %s)", c.CaptureTimeout)
	}
	if c.ViewportWidth < 1 || c.ViewportHeight < 1 {
		return fmt.Errorf("viewport must be at least 1x1 (got %dx%d)", c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration >= 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
