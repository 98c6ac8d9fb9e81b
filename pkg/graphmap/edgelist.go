package graphmap

import (
	"bufio"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// EdgeListOptions controls how a text edge list is turned into a graph.
type EdgeListOptions struct {
	// Undirected adds the reverse of every edge.
	Undirected bool

	// DropSelfLoops discards u -> u edges.
	DropSelfLoops bool

	// Nodes forces the node count. Zero means max id + 1, in which case ids
	// must stay below DefaultMaxImplicitNodes.
	Nodes uint64
}

// DefaultMaxImplicitNodes bounds the node count inferred from the largest id
// when EdgeListOptions.Nodes is unset. Larger graphs must pass Nodes.
const DefaultMaxImplicitNodes = uint64(1) << 28

// EdgeListStats summarises a conversion.
type EdgeListStats struct {
	Lines      int // non-comment lines read
	Duplicates int // edges removed by deduplication
	SelfLoops  int // self loops dropped (only with DropSelfLoops)
}

// ReadEdgeList parses a whitespace-separated "src dst" edge list and builds
// a graph with sorted, deduplicated neighbor lists. Lines starting with '#'
// or '%' are comments; extra columns (weights, timestamps) are ignored.
func ReadEdgeList(r io.Reader, opts EdgeListOptions) (*Graph, EdgeListStats, error) {
	var (
		stats EdgeListStats
		adj   [][]uint32
		maxID int64 = -1
	)

	add := func(u, v uint32) {
		for int(u) >= len(adj) {
			adj = append(adj, nil)
		}
		adj[u] = append(adj[u], v)
	}

	if opts.Nodes > MaxNodes {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "node count %d exceeds %d", opts.Nodes, MaxNodes)
	}
	limit := opts.Nodes
	if limit == 0 {
		limit = DefaultMaxImplicitNodes
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, stats, errors.New(errors.ErrCodeInvalidInput, "line %d: want \"src dst\", got %q", lineNo, line)
		}
		u, err := parseID(fields[0])
		if err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: source", lineNo)
		}
		v, err := parseID(fields[1])
		if err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d: target", lineNo)
		}
		if id := max(u, v); uint64(id) >= limit {
			if opts.Nodes > 0 {
				return nil, stats, errors.New(errors.ErrCodeInvalidInput, "line %d: node %d >= node count %d", lineNo, id, opts.Nodes)
			}
			return nil, stats, errors.New(errors.ErrCodeInvalidInput, "line %d: node %d >= %d; set the node count explicitly", lineNo, id, limit)
		}
		stats.Lines++

		if u == v && opts.DropSelfLoops {
			stats.SelfLoops++
			continue
		}
		maxID = max(maxID, int64(u), int64(v))
		add(u, v)
		if opts.Undirected && u != v {
			add(v, u)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeIO, err, "read edge list")
	}

	n := uint64(maxID + 1)
	if opts.Nodes > 0 {
		n = opts.Nodes
	}
	for uint64(len(adj)) < n {
		adj = append(adj, nil)
	}

	for u, list := range adj {
		slices.Sort(list)
		before := len(list)
		list = slices.Compact(list)
		stats.Duplicates += before - len(list)
		adj[u] = list
	}

	g, err := FromAdjacency(adj)
	if err != nil {
		return nil, stats, err
	}
	return g, stats, nil
}

func parseID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
