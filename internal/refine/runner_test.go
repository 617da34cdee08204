package refine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodiack/clair/internal/store"
)

func TestRunnerRunsFirstCycleImmediately(t *testing.T) {
	st := newTestStore(t)
	seedPending(t, st, "dev_ai_todos", "t1", nil)

	runner := NewRunner(New(st), time.Hour)
	runner.Start(context.Background())
	defer runner.Stop()

	require.Eventually(t, func() bool {
		rows, err := st.Select(context.Background(), store.Query{
			Table: "dev_ai_todos",
			Where: []store.Cond{store.Eq("status", "open")},
		})
		return err == nil && len(rows) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerStopIsIdempotent(t *testing.T) {
	runner := NewRunner(New(newTestStore(t)), time.Hour)

	// Stopping before starting must not block or panic
	runner.Stop()

	runner.Start(context.Background())
	runner.Start(context.Background()) // second Start is a no-op
	runner.Stop()
	runner.Stop()
}

func TestRunnerDefaultInterval(t *testing.T) {
	runner := NewRunner(New(newTestStore(t)), 0)
	assert.Equal(t, DefaultInterval, runner.interval)
}
