package graphmap

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// MaxNodes is the largest node count a graph may have. Node ids are stored
// as 32-bit values and id+1 must stay representable.
const MaxNodes = uint64(1)<<32 - 1

// Graph is an immutable adjacency structure: one flat edge block plus an
// offset index. The zero value is an empty graph.
type Graph struct {
	offsets []uint64
	edges   []uint32

	// mapping is the mapped file backing offsets and edges, or nil when the
	// graph lives on the Go heap.
	mapping []byte
}

// FromAdjacency builds an in-memory graph from per-node neighbor lists.
// Every list must be strictly ascending with ids in [0, len(adj)); the lists
// are copied, so the caller keeps ownership of adj.
func FromAdjacency(adj [][]uint32) (*Graph, error) {
	n := uint64(len(adj))
	if n > MaxNodes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "too many nodes: %d", n)
	}

	var total uint64
	for u, list := range adj {
		for i, v := range list {
			if uint64(v) >= n {
				return nil, errors.New(errors.ErrCodeOutOfRange, "node %d: neighbor %d >= node count %d", u, v, n)
			}
			if i > 0 && list[i-1] >= v {
				return nil, errors.New(errors.ErrCodeInvalidInput, "node %d: neighbors not strictly ascending at position %d", u, i)
			}
		}
		total += uint64(len(list))
	}

	g := &Graph{
		offsets: make([]uint64, n+1),
		edges:   make([]uint32, 0, total),
	}
	for u, list := range adj {
		g.edges = append(g.edges, list...)
		g.offsets[u+1] = uint64(len(g.edges))
	}
	return g, nil
}

// NodeCount returns the number of nodes N. Valid ids are [0, N).
func (g *Graph) NodeCount() uint64 {
	if len(g.offsets) == 0 {
		return 0
	}
	return uint64(len(g.offsets) - 1)
}

// EdgeCount returns the total number of stored (directed) edges.
func (g *Graph) EdgeCount() uint64 {
	return uint64(len(g.edges))
}

// Neighbors returns the ascending, duplicate-free neighbor list of id.
// It fails with OUT_OF_RANGE if id >= NodeCount().
//
// The returned slice aliases the store and must not be modified.
func (g *Graph) Neighbors(id uint32) ([]uint32, error) {
	if uint64(id) >= g.NodeCount() {
		return nil, errors.New(errors.ErrCodeOutOfRange, "node %d >= node count %d", id, g.NodeCount())
	}
	return g.Edges(id), nil
}

// Edges is the unchecked form of [Graph.Neighbors] for hot loops. An
// out-of-range id is a caller bug and panics with an index error.
func (g *Graph) Edges(id uint32) []uint32 {
	return g.edges[g.offsets[id]:g.offsets[uint64(id)+1]]
}

// Degree returns the out-degree of id. It panics if id is out of range.
func (g *Graph) Degree(id uint32) int {
	return int(g.offsets[uint64(id)+1] - g.offsets[id])
}

// MaxDegree returns the largest out-degree in the graph.
func (g *Graph) MaxDegree() int {
	var best uint64
	for u := 1; u < len(g.offsets); u++ {
		best = max(best, g.offsets[u]-g.offsets[u-1])
	}
	return int(best)
}

// Mapped reports whether the graph is backed by a memory-mapped file.
func (g *Graph) Mapped() bool {
	return g.mapping != nil
}

// Validate checks that every neighbor list is strictly ascending and that
// every id is in range. It costs O(E) and is meant for inspection tools, not
// for the load path.
func (g *Graph) Validate() error {
	n := g.NodeCount()
	for u := uint64(0); u < n; u++ {
		list := g.Edges(uint32(u))
		for i, v := range list {
			if uint64(v) >= n {
				return errors.New(errors.ErrCodeCorruptGraph, "node %d: neighbor %d >= node count %d", u, v, n)
			}
			if i > 0 && list[i-1] >= v {
				return errors.New(errors.ErrCodeCorruptGraph, "node %d: neighbors not strictly ascending at position %d", u, i)
			}
		}
	}
	return nil
}

// Fingerprint returns a content hash of the offset index and edge block.
// Equal graphs have equal fingerprints regardless of how they were loaded.
func (g *Graph) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], g.NodeCount())
	_, _ = d.Write(buf[:])
	for _, off := range g.offsets {
		binary.LittleEndian.PutUint64(buf[:], off)
		_, _ = d.Write(buf[:])
	}
	for _, v := range g.edges {
		binary.LittleEndian.PutUint32(buf[:4], v)
		_, _ = d.Write(buf[:4])
	}
	return d.Sum64()
}

// Transpose builds the in-memory reverse graph: v -> u for every u -> v.
// Sources are visited in ascending order, so every reversed list comes out
// ascending without a sort.
func (g *Graph) Transpose() *Graph {
	n := g.NodeCount()
	t := &Graph{
		offsets: make([]uint64, n+1),
		edges:   make([]uint32, len(g.edges)),
	}
	for _, v := range g.edges {
		t.offsets[uint64(v)+1]++
	}
	for u := uint64(1); u <= n; u++ {
		t.offsets[u] += t.offsets[u-1]
	}
	next := slices.Clone(t.offsets[:n])
	for u := uint64(0); u < n; u++ {
		for _, v := range g.Edges(uint32(u)) {
			t.edges[next[v]] = uint32(u)
			next[v]++
		}
	}
	return t
}

// Close releases the file mapping, if any. The graph and every slice it
// returned must not be used afterwards.
func (g *Graph) Close() error {
	if g.mapping == nil {
		return nil
	}
	data := g.mapping
	g.mapping, g.offsets, g.edges = nil, nil, nil
	return unmap(data)
}
