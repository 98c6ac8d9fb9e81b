package join

import (
	"slices"

	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/intersect"
)

// GraphExtender is the PrefixExtender of a graph edge relation. Key selects
// the node bound by the prefix; the relation proposes that node's neighbors.
//
//   - Count is the node's degree, O(1).
//   - Propose is a copy of its neighbor list (the store is read-only).
//   - Intersect filters candidates against the neighbor list.
//   - Route is the node id.
type GraphExtender[P any] struct {
	graph *graphmap.Graph
	key   func(P) uint32
	ix    intersect.Intersector
}

// NewGraphExtender binds an edge relation over g. ix chooses between merge
// and gallop during Intersect.
func NewGraphExtender[P any](g *graphmap.Graph, key func(P) uint32, ix intersect.Intersector) *GraphExtender[P] {
	return &GraphExtender[P]{graph: g, key: key, ix: ix}
}

func (e *GraphExtender[P]) Count(prefix P) uint64 {
	return uint64(e.graph.Degree(e.key(prefix)))
}

func (e *GraphExtender[P]) Propose(prefix P) []uint32 {
	return slices.Clone(e.graph.Edges(e.key(prefix)))
}

func (e *GraphExtender[P]) Intersect(prefix P, candidates []uint32) []uint32 {
	return intersect.Filter(e.ix, candidates, e.graph.Edges(e.key(prefix)))
}

func (e *GraphExtender[P]) Route(prefix P) uint64 {
	return uint64(e.key(prefix))
}

// Attr returns a key function reading attribute i of a tuple prefix.
func Attr(i int) func(Tuple[uint32]) uint32 {
	return func(t Tuple[uint32]) uint32 { return t[i] }
}

var _ PrefixExtender[Tuple[uint32], uint32] = (*GraphExtender[Tuple[uint32]])(nil)
