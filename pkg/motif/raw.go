package motif

import (
	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/intersect"
)

// RawTriangles counts feed-forward triangles without the join machinery:
// for every a and every b in N(a) it adds |N(a) ∩ N(b)|. It also returns
// the number of nodes with at least one out-edge.
func RawTriangles(g *graphmap.Graph, ix intersect.Intersector) (triangles uint64, active uint64) {
	n := g.NodeCount()
	for a := uint64(0); a < n; a++ {
		na := g.Edges(uint32(a))
		if len(na) > 0 {
			active++
		}
		for _, b := range na {
			nb := g.Edges(b)
			if len(na) < len(nb) {
				triangles += intersect.Count(ix, na, nb)
			} else {
				triangles += intersect.Count(ix, nb, na)
			}
		}
	}
	return triangles, active
}

// BruteForce counts the matches of p in adj by trying every assignment of
// nodes to attributes. It is exponential in the arity and only meant as a
// test oracle.
func BruteForce(p Pattern, adj [][]uint32) uint64 {
	edges := make(map[[2]uint32]bool)
	for a, ns := range adj {
		for _, b := range ns {
			edges[[2]uint32{uint32(a), b}] = true
		}
	}

	n := uint32(len(adj))
	binding := make([]uint32, p.Arity)
	var count uint64
	var bind func(k int)
	bind = func(k int) {
		if k == p.Arity {
			count++
			return
		}
		for v := uint32(0); v < n; v++ {
			binding[k] = v
			ok := true
			for _, e := range p.Incoming(k) {
				if !edges[[2]uint32{binding[e.From], binding[e.To]}] {
					ok = false
					break
				}
			}
			if ok {
				bind(k + 1)
			}
		}
	}
	if n > 0 {
		bind(0)
	}
	return count
}

// BruteForceTriangles is BruteForce for the triangle pattern.
func BruteForceTriangles(adj [][]uint32) uint64 {
	p, _ := ParsePattern(Triangle)
	return BruteForce(p, adj)
}
