// Package pipeline ties the graph store, the join engine, and the result
// cache together for the command line.
//
// A [Runner] answers two kinds of query over an opened graph:
//
//  1. Count: the number of matches of a motif pattern, via GenericJoin
//  2. PageRank: per-node ranks after a bounded number of iterations
//
// Both look the result up in the cache first, keyed by the graph fingerprint
// and every option that changes the answer, and store it afterwards. The
// worker count is never part of a key.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Count(ctx, g, pipeline.Options{
//	    Pattern: motif.Triangle,
//	    Workers: 4,
//	})
//	fmt.Println(res.Rows, res.Cached)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/intersect"
	"github.com/matzehuels/gjoin/pkg/join"
	"github.com/matzehuels/gjoin/pkg/motif"
	"github.com/matzehuels/gjoin/pkg/pagerank"
)

// Plan output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported plan formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatDOT: true,
	FormatPNG: true,
	FormatPDF: true,
}

// ValidateFormat checks a plan output format. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be svg, dot, png or pdf)", format)
	}
	return nil
}

// Options configures a Runner call.
type Options struct {
	// Pattern is the motif for Count. Empty means the triangle.
	Pattern string

	// Workers is the number of in-process workers. Zero means 1.
	Workers int

	Intersector intersect.Intersector

	// PageRank configures PageRank calls.
	PageRank pagerank.Options

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool

	// TTL of stored results. Zero means the per-kind default.
	TTL time.Duration

	Logger *log.Logger
}

// SetDefaults fills zero values.
func (o *Options) SetDefaults() {
	if o.Pattern == "" {
		o.Pattern = motif.Triangle
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks options after SetDefaults.
func (o *Options) Validate() error {
	if err := errors.ValidateWorkerCount(o.Workers); err != nil {
		return err
	}
	if o.Intersector.Crossover < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "crossover must not be negative, got %d", o.Intersector.Crossover)
	}
	if o.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ttl must not be negative")
	}
	return nil
}

// CountResult is the outcome of Runner.Count.
type CountResult struct {
	Pattern string            `json:"pattern"`
	Rows    uint64            `json:"rows"`
	Layers  []join.LayerStats `json:"layers"`
	Elapsed time.Duration     `json:"elapsed"`
	Cached  bool              `json:"-"`
}

// PageRankResult is the outcome of Runner.PageRank.
type PageRankResult struct {
	Ranks      []float64       `json:"ranks"`
	Iterations []time.Duration `json:"iterations"`
	Cached     bool            `json:"-"`
}

func ttlOr(ttl, def time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return def
}
