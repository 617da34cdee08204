package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero todo threshold", func(c *Config) { c.TodoThreshold = 0 }},
		{"todo threshold above one", func(c *Config) { c.TodoThreshold = 1.5 }},
		{"negative bug threshold", func(c *Config) { c.BugThreshold = -0.1 }},
		{"todo batch too small", func(c *Config) { c.TodoBatchLimit = 1 }},
		{"todo batch too large", func(c *Config) { c.TodoBatchLimit = 1000 }},
		{"bug batch too large", func(c *Config) { c.BugBatchLimit = 501 }},
		{"description cap too small", func(c *Config) { c.MaxDescriptionLength = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CLAIR_MERGE_TODO_THRESHOLD", "0.7")
	t.Setenv("CLAIR_MERGE_BUG_BATCH_LIMIT", "100")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.TodoThreshold)
	assert.Equal(t, 100, cfg.BugBatchLimit)
	// Unset values keep their defaults
	assert.Equal(t, 0.6, cfg.BugThreshold)
	assert.Equal(t, 500, cfg.TodoBatchLimit)
}

func TestConfigFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("CLAIR_MERGE_TODO_THRESHOLD", "not-a-number")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfigFromEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv("CLAIR_MERGE_TODO_THRESHOLD", "2.0")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}
