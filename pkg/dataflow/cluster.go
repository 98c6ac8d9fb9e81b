package dataflow

import (
	"context"
	"io"
	"iter"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// Cluster is a fixed set of in-process workers.
type Cluster struct {
	workers int
	logger  *log.Logger
}

// NewCluster creates a cluster of the given number of workers.
// If logger is nil, worker lifecycle logging is discarded.
func NewCluster(workers int, logger *log.Logger) (*Cluster, error) {
	if err := errors.ValidateWorkerCount(workers); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Cluster{workers: workers, logger: logger}, nil
}

// Workers returns the number of workers.
func (c *Cluster) Workers() int {
	return c.workers
}

// Run starts fn once per worker and waits for all of them. The first error
// cancels the context passed to the remaining workers, which unblocks any
// pending exchange, and is returned.
func (c *Cluster) Run(ctx context.Context, fn func(ctx context.Context, w *Worker) error) error {
	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(c.workers)

	for i := 0; i < c.workers; i++ {
		w := &Worker{index: i, peers: c.workers}
		p.Go(func(ctx context.Context) error {
			c.logger.Debug("worker started", "worker", w.index)
			err := fn(ctx, w)
			c.logger.Debug("worker finished", "worker", w.index, "err", err)
			return err
		})
	}
	return p.Wait()
}

// Worker is one participant of a cluster run. A Worker must only be used
// from the goroutine running it.
type Worker struct {
	index int
	peers int
}

// Index returns this worker's position in [0, Peers()).
func (w *Worker) Index() int {
	return w.index
}

// Peers returns the number of workers in the run.
func (w *Worker) Peers() int {
	return w.peers
}

// Owns reports whether node id is in this worker's shard.
func (w *Worker) Owns(id uint64) bool {
	return id%uint64(w.peers) == uint64(w.index)
}

// Nodes yields the ids in [0, n) owned by this worker, ascending.
// The shards of all workers are disjoint and together cover [0, n).
func (w *Worker) Nodes(n uint64) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for id := uint64(w.index); id < n; id += uint64(w.peers) {
			if !yield(uint32(id)) {
				return
			}
		}
	}
}

// ShardLen returns how many ids in [0, n) this worker owns.
func (w *Worker) ShardLen(n uint64) int {
	if uint64(w.index) >= n {
		return 0
	}
	return int((n - uint64(w.index) + uint64(w.peers) - 1) / uint64(w.peers))
}
