// Package graphmap provides an immutable, memory-mapped graph store with
// O(1) access to each node's sorted neighbor list.
//
// # File Layout
//
// A graph file is a little-endian binary container with three parts:
//
//	u64            N          node count
//	u64 × (N+1)    offsets    offsets[u]..offsets[u+1] bounds u's neighbors
//	u32 × offsets[N] edges    flat block of neighbor ids
//
// Offsets index 32-bit elements of the edge block. offsets[0] must be 0,
// offsets must never decrease, and offsets[N] must equal the number of ids in
// the edge block. A file that breaks any of these rules fails [Open] with
// CORRUPT_GRAPH; the store never truncates or clamps.
//
// Each neighbor list must already be strictly ascending. The producing tool
// ([ReadEdgeList] followed by [WriteFile], or `gjoin convert`) sorts and
// deduplicates; this package never re-sorts on load. [Graph.Validate] checks
// the ordering explicitly when asked.
//
// # Concurrency
//
// A [Graph] is read-only for its whole lifetime. Any number of goroutines may
// call its accessors without synchronization. The only source of unbounded
// latency is OS page-in of the mapped file.
//
// # Usage
//
//	g, err := graphmap.Open("livejournal.graph")
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
//	for u := uint32(0); uint64(u) < g.NodeCount(); u++ {
//	    for _, v := range g.Edges(u) {
//	        // u -> v
//	    }
//	}
package graphmap
