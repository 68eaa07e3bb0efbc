package config

import "fmt"

func validate(c *Config) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.PageTimeout <= 0 {
		return fmt.Errorf("page timeout must be > 0")
	}
	if c.Threads <= 0 || c.Threads > MaxThreads {
		return fmt.Errorf("threads must be between 1 and %d", MaxThreads)
	}
	if c.RetryCount <= 0 || c.RetryCount > MaxRetryCount {
		return fmt.Errorf("retry count must be between 1 and %d", MaxRetryCount)
	}
	if c.ProbeConcurrency <= 0 || c.ProbeConcurrency > MaxProbeConcurrency {
		return fmt.Errorf("probe concurrency must be between 1 and %d", MaxProbeConcurrency)
	}
	return nil
}
