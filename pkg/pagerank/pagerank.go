// Package pagerank computes PageRank over a graph on a dataflow cluster.
//
// Each worker owns the nodes id % peers == index. An iteration updates the
// owned ranks from the contributions received in the previous iteration,
// scatters rank/degree along every out-edge into a dense buffer, and
// exchanges the non-zero entries with the owners of their targets. Nodes
// without out-edges keep their rank and contribute nothing.
package pagerank

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/graphmap"
)

const (
	DefaultIterations = 20
	DefaultDamping    = 0.85
)

// Options configures a PageRank run.
type Options struct {
	// Iterations bounds the loop. Zero means DefaultIterations.
	Iterations int

	// Damping is the probability of following an edge. Each rank is
	// updated to (1 - Damping) + Damping * incoming. Zero means
	// DefaultDamping.
	Damping float64

	// Tolerance stops the loop early once the total absolute rank change
	// of an iteration drops below it. Zero runs every iteration.
	Tolerance float64

	Logger *log.Logger
}

// SetDefaults fills in zero values.
func (o *Options) SetDefaults() {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Damping == 0 {
		o.Damping = DefaultDamping
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after SetDefaults.
func (o *Options) Validate() error {
	if o.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must not be negative, got %d", o.Iterations)
	}
	if o.Damping <= 0 || o.Damping >= 1 {
		return errors.New(errors.ErrCodeInvalidInput, "damping must be in (0, 1), got %v", o.Damping)
	}
	if o.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance must not be negative, got %v", o.Tolerance)
	}
	return nil
}

// Result holds the ranks from the last completed iteration.
type Result struct {
	Ranks      []float64       // indexed by node id
	Iterations []time.Duration // wall time of each iteration on worker 0
}

// Sum returns the total rank mass.
func (r Result) Sum() float64 {
	var s float64
	for _, v := range r.Ranks {
		s += v
	}
	return s
}

type contribution struct {
	node uint32
	rank float64
}

// Run computes PageRank of g on c.
func Run(ctx context.Context, c *dataflow.Cluster, g *graphmap.Graph, opts Options) (Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	n := g.NodeCount()
	res := Result{Ranks: make([]float64, n)}
	ranks := dataflow.NewChannel[contribution](c, "ranks")
	deltas := dataflow.NewChannel[float64](c, "deltas")

	err := c.Run(ctx, func(ctx context.Context, w *dataflow.Worker) error {
		owned := make([]uint32, 0, w.ShardLen(n))
		for id := range w.Nodes(n) {
			owned = append(owned, id)
		}
		peers := uint32(w.Peers())

		acc := make([]float64, len(owned))
		for i := range acc {
			acc[i] = 1
		}
		rank := make([]float64, len(owned))
		prev := make([]float64, len(owned))
		dst := make([]float64, n)

		_, err := dataflow.Iterate(ctx, dataflow.Timestamp{}, uint64(opts.Iterations), func(ctx context.Context, ts dataflow.Timestamp) (bool, error) {
			start := time.Now()
			copy(prev, rank)
			for i := range owned {
				rank[i] = (1 - opts.Damping) + opts.Damping*acc[i]
			}

			for i, id := range owned {
				edges := g.Edges(id)
				if len(edges) == 0 {
					continue
				}
				share := rank[i] / float64(len(edges))
				for _, b := range edges {
					dst[b] += share
				}
			}
			var out []contribution
			for b, v := range dst {
				if v != 0 {
					out = append(out, contribution{node: uint32(b), rank: v})
					dst[b] = 0
				}
			}

			in, err := ranks.Exchange(ctx, w, ts, out, func(x contribution) uint64 { return uint64(x.node) })
			if err != nil {
				return false, err
			}
			clear(acc)
			for _, x := range in {
				acc[x.node/peers] += x.rank
			}

			elapsed := time.Since(start)
			if w.Index() == 0 {
				res.Iterations = append(res.Iterations, elapsed)
				opts.Logger.Debug("pagerank iteration", "iteration", ts.Iteration, "sent", len(out), "elapsed", elapsed)
			}

			if opts.Tolerance == 0 || ts.Iteration == 0 {
				return false, nil
			}
			var delta float64
			for i := range rank {
				delta += math.Abs(rank[i] - prev[i])
			}
			total, err := dataflow.Sum(ctx, deltas, w, ts, delta)
			if err != nil {
				return false, err
			}
			return total < opts.Tolerance, nil
		})
		if err != nil {
			return err
		}

		for i, id := range owned {
			res.Ranks[id] = rank[i]
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
