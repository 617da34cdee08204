package refine

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultInterval is how often the scheduled pipeline fires.
const DefaultInterval = 30 * time.Second

// Runner triggers pipeline cycles on a fixed interval. Cycles are not
// mutually exclusive with on-demand RunOnce calls; the intake filter
// makes overlapping runs convergent.
type Runner struct {
	refiner  *Refiner
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewRunner creates a runner. A non-positive interval selects
// DefaultInterval.
func NewRunner(refiner *Refiner, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Runner{refiner: refiner, interval: interval}
}

// Start launches the interval loop. The first cycle runs immediately.
// Calling Start on a running runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	log.Printf("refine: starting pipeline runner (%s interval)", r.interval)

	go r.loop(ctx, r.stop, r.done)
}

// Stop halts the interval loop and waits for an in-flight cycle to
// finish. Safe to call on a stopped runner.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stop, done := r.stop, r.done
	r.mu.Unlock()

	close(stop)
	<-done
	log.Printf("refine: pipeline runner stopped")
}

func (r *Runner) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	r.refiner.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refiner.RunOnce(ctx)
		}
	}
}
