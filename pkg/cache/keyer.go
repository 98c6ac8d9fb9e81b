package cache

import "strconv"

// CountKeyOpts are the inputs that change a motif count.
type CountKeyOpts struct {
	Pattern   string // canonical pattern, e.g. "0-1,0-2,1-2"
	Crossover int
}

// PageRankKeyOpts are the inputs that change a PageRank result.
type PageRankKeyOpts struct {
	Iterations int
	Damping    float64
	Tolerance  float64
}

// Keyer derives cache keys for query results.
type Keyer interface {
	// CountKey identifies a motif count over the graph with fingerprint fp.
	CountKey(fp uint64, opts CountKeyOpts) string

	// PageRankKey identifies a PageRank vector over the graph with
	// fingerprint fp.
	PageRankKey(fp uint64, opts PageRankKeyOpts) string
}

// DefaultKeyer hashes every key component. The worker count is not part of
// any key: results do not depend on it.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) CountKey(fp uint64, opts CountKeyOpts) string {
	return hashKey("count", fp, opts.Pattern, strconv.Itoa(opts.Crossover))
}

func (DefaultKeyer) PageRankKey(fp uint64, opts PageRankKeyOpts) string {
	return hashKey("pagerank", fp, strconv.Itoa(opts.Iterations), formatFloat(opts.Damping), formatFloat(opts.Tolerance))
}
