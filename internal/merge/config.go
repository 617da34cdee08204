package merge

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds configuration for the similarity merge engine
type Config struct {
	// TodoThreshold is the minimum title similarity (0.0-1.0) for two
	// todos to be merged
	// Default: 0.5 (todos are phrased loosely; cast a wider net)
	TodoThreshold float64

	// BugThreshold is the minimum title similarity (0.0-1.0) for two
	// bugs to be merged
	// Default: 0.6 (bug reports are more precise; merge conservatively)
	BugThreshold float64

	// TodoBatchLimit is the maximum number of todos scanned per run.
	// The pairwise scan is O(n²), so this bounds cost.
	// Default: 500, Range: 2-500
	TodoBatchLimit int

	// BugBatchLimit is the maximum number of bugs scanned per run
	// Default: 200, Range: 2-500
	BugBatchLimit int

	// MaxDescriptionLength caps a primary's combined description so
	// repeated merges cannot grow it without bound
	// Default: 5000
	MaxDescriptionLength int
}

// DefaultConfig returns the default merge configuration
//
// These defaults are chosen to:
// - Merge loosely-worded todos but only clearly-duplicate bugs
// - Bound the O(n²) pairwise scan (sliding-window cleanup, not a
//   global all-time dedup pass)
// - Keep merged descriptions readable on the dashboard
func DefaultConfig() Config {
	return Config{
		TodoThreshold:        0.5,
		BugThreshold:         0.6,
		TodoBatchLimit:       500,
		BugBatchLimit:        200,
		MaxDescriptionLength: 5000,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.TodoThreshold <= 0.0 || c.TodoThreshold > 1.0 {
		return fmt.Errorf("todo_threshold must be in (0.0, 1.0] (got %.2f)", c.TodoThreshold)
	}
	if c.BugThreshold <= 0.0 || c.BugThreshold > 1.0 {
		return fmt.Errorf("bug_threshold must be in (0.0, 1.0] (got %.2f)", c.BugThreshold)
	}
	if c.TodoBatchLimit < 2 {
		return fmt.Errorf("todo_batch_limit must be at least 2 (got %d)", c.TodoBatchLimit)
	}
	if c.TodoBatchLimit > 500 {
		return fmt.Errorf("todo_batch_limit too large (got %d, max 500)", c.TodoBatchLimit)
	}
	if c.BugBatchLimit < 2 {
		return fmt.Errorf("bug_batch_limit must be at least 2 (got %d)", c.BugBatchLimit)
	}
	if c.BugBatchLimit > 500 {
		return fmt.Errorf("bug_batch_limit too large (got %d, max 500)", c.BugBatchLimit)
	}
	if c.MaxDescriptionLength < 100 {
		return fmt.Errorf("max_description_length must be at least 100 (got %d)", c.MaxDescriptionLength)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{TodoThreshold: %.2f, BugThreshold: %.2f, TodoBatch: %d, BugBatch: %d, MaxDescLen: %d}",
		c.TodoThreshold, c.BugThreshold, c.TodoBatchLimit, c.BugBatchLimit, c.MaxDescriptionLength,
	)
}

// ConfigFromEnv creates a config from environment variables, falling
// back to defaults for unset values.
//
// Environment variables:
//   - CLAIR_MERGE_TODO_THRESHOLD: float (0.0-1.0)
//   - CLAIR_MERGE_BUG_THRESHOLD: float (0.0-1.0)
//   - CLAIR_MERGE_TODO_BATCH_LIMIT: int
//   - CLAIR_MERGE_BUG_BATCH_LIMIT: int
//   - CLAIR_MERGE_MAX_DESCRIPTION_LENGTH: int
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvFloat("CLAIR_MERGE_TODO_THRESHOLD", &cfg.TodoThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvFloat("CLAIR_MERGE_BUG_THRESHOLD", &cfg.BugThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("CLAIR_MERGE_TODO_BATCH_LIMIT", &cfg.TodoBatchLimit); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("CLAIR_MERGE_BUG_BATCH_LIMIT", &cfg.BugBatchLimit); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("CLAIR_MERGE_MAX_DESCRIPTION_LENGTH", &cfg.MaxDescriptionLength); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid merge configuration: %w", err)
	}
	return cfg, nil
}

func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
