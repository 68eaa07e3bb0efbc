package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string

	// Input/Output
	URLFile   string
	OutputDir string
	SaveText  bool

	// Viewport
	Width  int
	Height int

	// Capture timing
	PageTimeout        time.Duration
	NetworkIdleTimeout time.Duration
	ExtraWait          time.Duration

	// Concurrency and retries
	Threads    int
	RetryCount int

	// Capture behavior
	FullPage        bool
	UserAgent       string
	IgnoreSSLErrors bool
	ChromePath      string

	// Prober
	ProbeTimeout     time.Duration
	ProbeConcurrency int
	ProbeRetries     int
}

// Load builds a Config by combining defaults, environment variables, and CLI
// flags. Caller passes the command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:           DefaultLogLevel,
		OutputDir:          DefaultOutputDir,
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		PageTimeout:        DefaultPageTimeout,
		NetworkIdleTimeout: DefaultNetworkIdleTimeout,
		ExtraWait:          DefaultExtraWait,
		Threads:            DefaultThreads,
		RetryCount:         DefaultRetryCount,
		UserAgent:          DefaultUserAgent,
		ProbeTimeout:       DefaultProbeTimeout,
		ProbeConcurrency:   DefaultProbeConcurrency,
		ProbeRetries:       DefaultProbeRetries,
	}

	// Environment overrides
	if v := os.Getenv("EYEURL_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("EYEURL_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("EYEURL_OUTPUT"); v != "" {
		cfg.OutputDir = v
	}

	if cmd != nil {
		flags := cmd.Flags()
		if s, err := flags.GetString("output"); err == nil && s != "" {
			cfg.OutputDir = s
		}
		if n, err := flags.GetInt("width"); err == nil && n > 0 {
			cfg.Width = n
		}
		if n, err := flags.GetInt("height"); err == nil && n > 0 {
			cfg.Height = n
		}
		if n, err := flags.GetInt("timeout"); err == nil && n > 0 {
			cfg.PageTimeout = time.Duration(n) * time.Second
		}
		if n, err := flags.GetInt("network-timeout"); err == nil && n > 0 {
			cfg.NetworkIdleTimeout = time.Duration(n) * time.Second
		}
		if f, err := flags.GetFloat64("wait"); err == nil && f > 0 {
			cfg.ExtraWait = time.Duration(f * float64(time.Second))
		}
		if n, err := flags.GetInt("threads"); err == nil && n > 0 {
			cfg.Threads = n
		}
		if n, err := flags.GetInt("retry"); err == nil && n > 0 {
			cfg.RetryCount = n
		}
		if b, err := flags.GetBool("full-page"); err == nil {
			cfg.FullPage = b
		}
		if s, err := flags.GetString("user-agent"); err == nil && s != "" {
			cfg.UserAgent = s
		}
		if b, err := flags.GetBool("ignore-ssl-errors"); err == nil {
			cfg.IgnoreSSLErrors = b
		}
		if b, err := flags.GetBool("save-text"); err == nil {
			cfg.SaveText = b
		}
		if n, err := flags.GetInt("probe-timeout"); err == nil && n > 0 {
			cfg.ProbeTimeout = time.Duration(n) * time.Second
		}
		if n, err := flags.GetInt("probe-concurrency"); err == nil && n > 0 {
			cfg.ProbeConcurrency = n
		}
		if n, err := flags.GetInt("probe-retries"); err == nil && n >= 0 {
			cfg.ProbeRetries = n
		}
		if b, err := flags.GetBool("verbose"); err == nil && b {
			cfg.LogLevel = "debug"
		}
	}

	// Extra wait is capped rather than rejected: callers asking for a very
	// long settle time should not be able to multiply the worst case.
	if cfg.ExtraWait > MaxExtraWait {
		cfg.ExtraWait = MaxExtraWait
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
