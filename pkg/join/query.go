package join

import (
	"cmp"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/observability"
)

// Layer binds one more attribute. Every extender proposes values for it
// from the current prefix.
type Layer[V cmp.Ordered] struct {
	Name      string
	Extenders []PrefixExtender[Tuple[V], V]

	// Route overrides where prefixes are processed. When nil, the first
	// extender's Route is used.
	Route func(Tuple[V]) uint64
}

func (l *Layer[V]) route(p Tuple[V]) uint64 {
	if l.Route != nil {
		return l.Route(p)
	}
	return l.Extenders[0].Route(p)
}

// Query is a sequence of layers applied to seed prefixes. The output rows
// have len(seed prefix) + len(Layers) attributes.
type Query[V cmp.Ordered] struct {
	Name   string
	Layers []Layer[V]
}

// Validate reports a query that cannot run.
func (q *Query[V]) Validate() error {
	if len(q.Layers) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "query %q has no layers", q.Name)
	}
	for i := range q.Layers {
		if len(q.Layers[i].Extenders) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "query %q: layer %d has no extenders", q.Name, i)
		}
	}
	return nil
}

// Run evaluates the query on one worker. Every worker of the run must call
// Run with the same channel and a query of the same shape; seed holds this
// worker's share of the initial prefixes.
//
// Before each layer the prefixes are exchanged through ch by the layer's
// route, which is the layer barrier. emit is called for every surviving
// extension of the last layer; each candidate completes one output row.
// Per-layer statistics for this worker are returned in layer order.
//
// The logger is taken from ctx.
func (q *Query[V]) Run(ctx context.Context, w *dataflow.Worker, ch *dataflow.Channel[Tuple[V]], seed []Tuple[V], emit func(Extension[Tuple[V], V]) error) ([]LayerStats, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	logger := log.FromContext(ctx)
	hooks := observability.Join()

	stats := make([]LayerStats, len(q.Layers))
	prefixes := seed
	for k := range q.Layers {
		layer := &q.Layers[k]
		ts := dataflow.Timestamp{Iteration: uint64(k)}

		var err error
		prefixes, err = ch.Exchange(ctx, w, ts, prefixes, layer.route)
		if err != nil {
			return stats[:k], err
		}

		hooks.OnLayerStart(ctx, q.Name, k, len(prefixes))
		start := time.Now()
		exts, st := ExtendLayer(prefixes, layer.Extenders)
		elapsed := time.Since(start)
		stats[k] = st

		hooks.OnLayerComplete(ctx, q.Name, k, summary(w, st), elapsed)
		logger.Debug("layer extended",
			"query", q.Name, "layer", k, "worker", w.Index(),
			"prefixes", st.Prefixes, "extended", st.Extended,
			"candidates", st.Candidates, "elapsed", elapsed)

		if k == len(q.Layers)-1 {
			for _, x := range exts {
				if err := emit(x); err != nil {
					return stats, err
				}
			}
			break
		}
		prefixes = Expand(exts, Tuple[V].Extend)
	}
	return stats, nil
}

// Count is Run that only counts this worker's output rows.
func (q *Query[V]) Count(ctx context.Context, w *dataflow.Worker, ch *dataflow.Channel[Tuple[V]], seed []Tuple[V]) (uint64, []LayerStats, error) {
	var n uint64
	stats, err := q.Run(ctx, w, ch, seed, func(x Extension[Tuple[V], V]) error {
		n += uint64(len(x.Candidates))
		return nil
	})
	return n, stats, err
}

func summary(w *dataflow.Worker, st LayerStats) observability.LayerSummary {
	return observability.LayerSummary{
		Worker:     w.Index(),
		Prefixes:   st.Prefixes,
		Dropped:    st.ZeroCount + st.Emptied,
		Extended:   st.Extended,
		Proposed:   st.Proposed,
		Candidates: st.Candidates,
	}
}
