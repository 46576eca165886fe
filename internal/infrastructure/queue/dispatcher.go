package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ecoshop/storefront/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

type job struct {
	ctx  context.Context
	key  string
	fn   func(ctx context.Context) error
	done chan error
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing
// on the job key, guaranteeing that jobs sharing a key run one at a time in
// submission order. The cart uses the line ID as key so rapid quantity
// changes on one line reach the backend in the order they were made.
type Dispatcher struct {
	workers []chan job
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Do enqueues fn on the worker owning key and waits for its result.
// Jobs whose context is already done when dequeued are skipped.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}
	idx := d.shardIndex(key)

	select {
	case d.workers[idx] <- j:
		metrics.CartQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	depth := metrics.CartQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			err := j.fn(j.ctx)
			if err != nil {
				d.log.Debug().Err(err).
					Str("key", j.key).
					Int("worker_id", id).
					Msg("dispatched job failed")
			}
			j.done <- err
		}
	}
}
