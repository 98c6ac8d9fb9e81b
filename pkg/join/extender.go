package join

import (
	"cmp"
)

// PrefixExtender is the capability a relation provides to GenericJoin: for a
// prefix, how many extensions it has, what they are, which of a candidate
// list it agrees with, and where the prefix should be processed.
//
// Implementations may assume prefixes are well formed (every bound id in
// range); anything else is a caller bug, not a recoverable condition.
type PrefixExtender[P any, E cmp.Ordered] interface {
	// Count returns the number of values Propose would return.
	Count(prefix P) uint64

	// Propose returns the ascending, duplicate-free extensions of prefix.
	// The caller owns the returned slice and may modify it.
	Propose(prefix P) []E

	// Intersect restricts the ascending candidates in place to the values
	// this relation also allows for prefix, keeping their order, and returns
	// the shortened slice.
	Intersect(prefix P, candidates []E) []E

	// Route returns the partition key of prefix. All extenders of a layer
	// must agree, so one exchange colocates all of a prefix's work.
	Route(prefix P) uint64
}

// Tuple is a prefix of bound attribute values, in binding order.
type Tuple[V any] []V

// Extend returns a new tuple with v appended. The receiver is not modified
// and the result never shares storage with it.
func (t Tuple[V]) Extend(v V) Tuple[V] {
	out := make(Tuple[V], len(t)+1)
	copy(out, t)
	out[len(t)] = v
	return out
}

// Extension pairs a prefix with its surviving candidates for the next
// attribute.
type Extension[P any, E cmp.Ordered] struct {
	Prefix     P
	Candidates []E
}
