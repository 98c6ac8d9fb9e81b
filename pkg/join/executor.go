package join

import (
	"cmp"
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/observability"
)

// Build constructs one worker's query and seed prefixes. It runs on the
// worker's goroutine, so everything it allocates is owned by that worker.
type Build[V cmp.Ordered] func(w *dataflow.Worker) (*Query[V], []Tuple[V], error)

// Result summarizes a query run across all workers.
type Result struct {
	Query   string
	Rows    uint64
	Layers  []LayerStats // merged over workers, one per layer
	Elapsed time.Duration
}

// Executor runs queries on a dataflow cluster.
type Executor[V cmp.Ordered] struct {
	cluster *dataflow.Cluster
	logger  *log.Logger
}

// NewExecutor returns an executor for c. If logger is nil, logging is
// discarded.
func NewExecutor[V cmp.Ordered](c *dataflow.Cluster, logger *log.Logger) *Executor[V] {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Executor[V]{cluster: c, logger: logger}
}

// Count runs the query on every worker and returns the global number of
// output rows. It is the same on every worker, summed with an all-reduce.
func (x *Executor[V]) Count(ctx context.Context, build Build[V]) (Result, error) {
	var rows uint64
	res, err := x.run(ctx, build, func(ctx context.Context, w *dataflow.Worker, q *Query[V], ch *dataflow.Channel[Tuple[V]], seed []Tuple[V], totals *dataflow.Channel[uint64]) ([]LayerStats, error) {
		n, stats, err := q.Count(ctx, w, ch, seed)
		if err != nil {
			return stats, err
		}
		total, err := dataflow.Sum(ctx, totals, w, dataflow.Timestamp{Iteration: uint64(len(q.Layers))}, n)
		if err != nil {
			return stats, err
		}
		if w.Index() == 0 {
			rows = total
		}
		return stats, nil
	})
	res.Rows = rows
	x.finish(ctx, &res, err)
	return res, err
}

// Collect runs the query and returns every output row, grouped by the
// worker that produced it in worker order.
func (x *Executor[V]) Collect(ctx context.Context, build Build[V]) ([]Tuple[V], Result, error) {
	perWorker := make([][]Tuple[V], x.cluster.Workers())
	res, err := x.run(ctx, build, func(ctx context.Context, w *dataflow.Worker, q *Query[V], ch *dataflow.Channel[Tuple[V]], seed []Tuple[V], _ *dataflow.Channel[uint64]) ([]LayerStats, error) {
		var out []Tuple[V]
		stats, err := q.Run(ctx, w, ch, seed, func(e Extension[Tuple[V], V]) error {
			for _, c := range e.Candidates {
				out = append(out, e.Prefix.Extend(c))
			}
			return nil
		})
		perWorker[w.Index()] = out
		return stats, err
	})
	rows := slices.Concat(perWorker...)
	res.Rows = uint64(len(rows))
	x.finish(ctx, &res, err)
	if err != nil {
		return nil, res, err
	}
	return rows, res, nil
}

type workerFunc[V cmp.Ordered] func(ctx context.Context, w *dataflow.Worker, q *Query[V], ch *dataflow.Channel[Tuple[V]], seed []Tuple[V], totals *dataflow.Channel[uint64]) ([]LayerStats, error)

func (x *Executor[V]) run(ctx context.Context, build Build[V], fn workerFunc[V]) (Result, error) {
	start := time.Now()
	ch := dataflow.NewChannel[Tuple[V]](x.cluster, "prefixes")
	totals := dataflow.NewChannel[uint64](x.cluster, "totals")
	perWorker := make([][]LayerStats, x.cluster.Workers())
	names := make([]string, x.cluster.Workers())

	ctx = log.WithContext(ctx, x.logger)
	err := x.cluster.Run(ctx, func(ctx context.Context, w *dataflow.Worker) error {
		q, seed, err := build(w)
		if err != nil {
			return err
		}
		if err := q.Validate(); err != nil {
			return err
		}
		names[w.Index()] = q.Name
		stats, err := fn(ctx, w, q, ch, seed, totals)
		perWorker[w.Index()] = stats
		return err
	})

	res := Result{Query: names[0], Elapsed: time.Since(start)}
	for _, stats := range perWorker {
		for k, st := range stats {
			if k == len(res.Layers) {
				res.Layers = append(res.Layers, LayerStats{})
			}
			res.Layers[k].Add(st)
		}
	}
	return res, err
}

func (x *Executor[V]) finish(ctx context.Context, res *Result, err error) {
	observability.Join().OnQueryComplete(ctx, res.Query, res.Rows, res.Elapsed, err)
	if err != nil {
		x.logger.Debug("query failed", "query", res.Query, "err", err)
		return
	}
	x.logger.Debug("query complete", "query", res.Query, "rows", res.Rows, "elapsed", res.Elapsed)
}
