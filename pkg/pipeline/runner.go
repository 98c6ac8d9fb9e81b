package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gjoin/pkg/cache"
	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/motif"
	"github.com/matzehuels/gjoin/pkg/pagerank"
	"github.com/matzehuels/gjoin/pkg/render"
)

// Runner executes queries with result caching.
//
// The Runner is stateless except for the cache and logger, so one Runner
// can serve several goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Count returns the number of matches of opts.Pattern in g.
func (r *Runner) Count(ctx context.Context, g *graphmap.Graph, opts Options) (*CountResult, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p, err := motif.ParsePattern(opts.Pattern)
	if err != nil {
		return nil, err
	}

	key := r.Keyer.CountKey(g.Fingerprint(), cache.CountKeyOpts{
		Pattern:   p.String(),
		Crossover: opts.Intersector.Crossover,
	})
	store := cache.Instrument(r.Cache, "count")

	if !opts.Refresh {
		var cached CountResult
		if r.lookup(ctx, store, key, &cached) {
			cached.Cached = true
			r.Logger.Debug("count cache hit", "pattern", p.String(), "rows", cached.Rows)
			return &cached, nil
		}
	}

	c, err := dataflow.NewCluster(opts.Workers, r.Logger)
	if err != nil {
		return nil, err
	}
	res, err := motif.Count(ctx, c, g, p, motif.Options{Intersector: opts.Intersector, Logger: r.Logger})
	if err != nil {
		return nil, err
	}

	out := &CountResult{
		Pattern: p.String(),
		Rows:    res.Rows,
		Layers:  res.Layers,
		Elapsed: res.Elapsed,
	}
	r.store(ctx, store, key, out, ttlOr(opts.TTL, cache.TTLCount))
	return out, nil
}

// PageRank computes PageRank of g with opts.PageRank.
func (r *Runner) PageRank(ctx context.Context, g *graphmap.Graph, opts Options) (*PageRankResult, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pr := opts.PageRank
	pr.SetDefaults()
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	pr.Logger = r.Logger

	key := r.Keyer.PageRankKey(g.Fingerprint(), cache.PageRankKeyOpts{
		Iterations: pr.Iterations,
		Damping:    pr.Damping,
		Tolerance:  pr.Tolerance,
	})
	store := cache.Instrument(r.Cache, "pagerank")

	if !opts.Refresh {
		var cached PageRankResult
		if r.lookup(ctx, store, key, &cached) && uint64(len(cached.Ranks)) == g.NodeCount() {
			cached.Cached = true
			return &cached, nil
		}
	}

	c, err := dataflow.NewCluster(opts.Workers, r.Logger)
	if err != nil {
		return nil, err
	}
	res, err := pagerank.Run(ctx, c, g, pr)
	if err != nil {
		return nil, err
	}

	out := &PageRankResult{Ranks: res.Ranks, Iterations: res.Iterations}
	r.store(ctx, store, key, out, ttlOr(opts.TTL, cache.TTLPageRank))
	return out, nil
}

// Plan renders the binding plan of pattern in format. stats may be nil.
func (r *Runner) Plan(ctx context.Context, pattern, format string, opts render.PlanOptions) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	p, err := motif.ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	dot := render.PlanDOT(p, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}
	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatPDF:
		return render.ToPDF(svg)
	case FormatPNG:
		return render.ToPNG(svg, 2.0)
	}
	return svg, nil
}

// lookup decodes a cached entry into v. Backend errors and undecodable
// entries count as misses.
func (r *Runner) lookup(ctx context.Context, c cache.Cache, key string, v any) bool {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		return false
	}
	return true
}

// store writes v. A failed write is logged, never returned: the result is
// already computed.
func (r *Runner) store(ctx context.Context, c cache.Cache, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "err", fmt.Errorf("%T: %w", v, err))
		return
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	}
}
