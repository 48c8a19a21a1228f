package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/perceptd/go-percept/internal/log"
	"github.com/perceptd/go-percept/pkg/relay"
)

// Source produces raw frames into the input relay at the camera's own
// cadence. Open is the startup precondition: failure to acquire the
// frame source is the only fatal error in the pipeline and is checked
// once before anything starts.
type Source interface {
	Open() error
	Run(ctx context.Context, out *relay.Queue[[]byte])
	Close() error
}

// Consumer receives each combined snapshot at its own pull cadence.
type Consumer func(Snapshot)

// Runner owns the three pipeline stages: frame acquisition, the
// scheduler, and the consumer. Cancellation is cooperative; each stage
// polls the shared context and exits within one queue-timeout interval.
type Runner struct {
	source    Source
	in        *relay.Queue[[]byte]
	scheduler *Scheduler
	out       *relay.Queue[Snapshot]
	consumer  Consumer
	timeout   time.Duration
}

// NewRunner assembles a runner. The in and out relays must be the same
// queues the scheduler was constructed with.
func NewRunner(source Source, in *relay.Queue[[]byte], scheduler *Scheduler, out *relay.Queue[Snapshot], consumer Consumer, getTimeout time.Duration) *Runner {
	if getTimeout <= 0 {
		getTimeout = time.Second
	}
	return &Runner{
		source:    source,
		in:        in,
		scheduler: scheduler,
		out:       out,
		consumer:  consumer,
		timeout:   getTimeout,
	}
}

// Run starts all stages and blocks until ctx is cancelled and every
// stage has drained out of its loop.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.source.Open(); err != nil {
		return fmt.Errorf("open frame source: %w", err)
	}
	defer r.source.Close()

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		r.source.Run(ctx, r.in)
	}()

	go func() {
		defer wg.Done()
		r.scheduler.Run(ctx)
	}()

	go func() {
		defer wg.Done()
		r.consume(ctx)
	}()

	log.Info("pipeline running")
	wg.Wait()
	log.Info("pipeline stopped")
	return nil
}

func (r *Runner) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		snap, ok := r.out.Get(r.timeout)
		if !ok {
			continue
		}
		if r.consumer != nil {
			r.consumer(snap)
		}
	}
}
