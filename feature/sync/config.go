package sync

import (
	"fmt"
	"time"
)

// Config holds configuration for sync runs.
type Config struct {
	// BatchSize is the number of records reconciled concurrently.
	BatchSize int `mapstructure:"batch_size" default:"10"`
	// BatchDelayMs is waited between chunks of a page.
	BatchDelayMs int `mapstructure:"batch_delay_ms" default:"0"`
	// PageDelayMs is waited between provider pages.
	PageDelayMs int `mapstructure:"page_delay_ms" default:"100"`
	// RetryFailed gives failed records a second pass at the end of each page.
	RetryFailed bool `mapstructure:"retry_failed" default:"true"`
	// Entities is the default entity selection of a run.
	Entities string `mapstructure:"entities" default:"all"`
	// ProgressEvery logs batch progress every N chunks. Zero disables it.
	ProgressEvery int `mapstructure:"progress_every" default:"5"`
}

// Validate checks the run settings.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("sync: batch_size must be positive")
	}
	if c.BatchDelayMs < 0 || c.PageDelayMs < 0 {
		return fmt.Errorf("sync: delays must not be negative")
	}
	if _, err := ParseEntities(c.Entities); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// BatchDelay is BatchDelayMs as a duration.
func (c Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

// PageDelay is PageDelayMs as a duration.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMs) * time.Millisecond
}
