package motif

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/intersect"
	"github.com/matzehuels/gjoin/pkg/join"
)

// Options tunes a motif count.
type Options struct {
	Intersector intersect.Intersector
	Logger      *log.Logger
}

// Count evaluates p over g on every worker of c and returns the global
// number of matches along with merged per-layer statistics.
func Count(ctx context.Context, c *dataflow.Cluster, g *graphmap.Graph, p Pattern, opts Options) (join.Result, error) {
	build, err := builder(g, p, opts)
	if err != nil {
		return join.Result{}, err
	}
	return join.NewExecutor[uint32](c, opts.Logger).Count(ctx, build)
}

// Matches evaluates p and returns every match as a tuple of node ids in
// attribute order.
func Matches(ctx context.Context, c *dataflow.Cluster, g *graphmap.Graph, p Pattern, opts Options) ([]join.Tuple[uint32], join.Result, error) {
	build, err := builder(g, p, opts)
	if err != nil {
		return nil, join.Result{}, err
	}
	return join.NewExecutor[uint32](c, opts.Logger).Collect(ctx, build)
}

// Triangles counts feed-forward triangles with GenericJoin. It returns the
// same number as RawTriangles.
func Triangles(ctx context.Context, c *dataflow.Cluster, g *graphmap.Graph, opts Options) (uint64, error) {
	p, err := ParsePattern(Triangle)
	if err != nil {
		return 0, err
	}
	res, err := Count(ctx, c, g, p, opts)
	return res.Rows, err
}

func builder(g *graphmap.Graph, p Pattern, opts Options) (join.Build[uint32], error) {
	var gt *graphmap.Graph
	if p.NeedsTranspose() {
		gt = g.Transpose()
	}
	// Surface compile errors before starting workers.
	if _, err := Compile(p, g, gt, opts.Intersector); err != nil {
		return nil, err
	}
	return func(w *dataflow.Worker) (*join.Query[uint32], []join.Tuple[uint32], error) {
		q, err := Compile(p, g, gt, opts.Intersector)
		if err != nil {
			return nil, nil, err
		}
		seed := make([]join.Tuple[uint32], 0, w.ShardLen(g.NodeCount()))
		for id := range w.Nodes(g.NodeCount()) {
			seed = append(seed, join.Tuple[uint32]{id})
		}
		return q, seed, nil
	}, nil
}
