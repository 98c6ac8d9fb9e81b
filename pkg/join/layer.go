package join

import (
	"cmp"
	"math"
)

// LayerStats describes one application of ExtendLayer.
type LayerStats struct {
	Prefixes   int    // prefixes entering the layer
	ZeroCount  int    // prefixes dropped because some extender counted zero
	Emptied    int    // prefixes dropped because an intersection came back empty
	Extended   int    // prefixes leaving with at least one candidate
	Proposed   uint64 // candidates proposed by owners
	Candidates uint64 // candidates surviving every intersection
	Owners     []int  // prefixes owned per extender index
}

// Add merges o into s. Owner slices are summed index by index.
func (s *LayerStats) Add(o LayerStats) {
	s.Prefixes += o.Prefixes
	s.ZeroCount += o.ZeroCount
	s.Emptied += o.Emptied
	s.Extended += o.Extended
	s.Proposed += o.Proposed
	s.Candidates += o.Candidates
	for len(s.Owners) < len(o.Owners) {
		s.Owners = append(s.Owners, 0)
	}
	for i, n := range o.Owners {
		s.Owners[i] += n
	}
}

// noOwner marks a prefix that has been dropped during counting.
const noOwner = -1

// ExtendLayer extends every prefix by one attribute using extenders and
// returns the prefixes that survive, each with its ascending candidates.
//
// The result is grouped by owning extender (in index order) and, within a
// group, keeps the input order of the prefixes. With no extenders nothing can
// propose, so the result is empty.
func ExtendLayer[P any, E cmp.Ordered](prefixes []P, extenders []PrefixExtender[P, E]) ([]Extension[P, E], LayerStats) {
	stats := LayerStats{
		Prefixes: len(prefixes),
		Owners:   make([]int, len(extenders)),
	}
	if len(extenders) == 0 {
		stats.ZeroCount = len(prefixes)
		return nil, stats
	}

	// Count: each extender sees every prefix still alive, in turn.
	owner := make([]int, len(prefixes))
	best := make([]uint64, len(prefixes))
	for i := range prefixes {
		best[i] = math.MaxUint64
	}
	for e, ext := range extenders {
		for i, p := range prefixes {
			if e > 0 && owner[i] == noOwner {
				continue
			}
			switch n := ext.Count(p); {
			case n == 0:
				owner[i] = noOwner
			case n < best[i]:
				best[i], owner[i] = n, e
			}
		}
	}

	// Partition by owner.
	parts := make([][]int, len(extenders))
	for i, o := range owner {
		if o == noOwner {
			stats.ZeroCount++
			continue
		}
		parts[o] = append(parts[o], i)
		stats.Owners[o]++
	}

	// Propose from the owner, intersect against everyone else.
	out := make([]Extension[P, E], 0, len(prefixes)-stats.ZeroCount)
	for o, part := range parts {
		for _, i := range part {
			p := prefixes[i]
			candidates := extenders[o].Propose(p)
			stats.Proposed += uint64(len(candidates))
			for e, ext := range extenders {
				if e == o || len(candidates) == 0 {
					continue
				}
				candidates = ext.Intersect(p, candidates)
			}
			if len(candidates) == 0 {
				stats.Emptied++
				continue
			}
			stats.Candidates += uint64(len(candidates))
			out = append(out, Extension[P, E]{Prefix: p, Candidates: candidates})
		}
	}
	stats.Extended = len(out)
	return out, stats
}

// Expand turns each (prefix, candidates) pair into one new prefix per
// candidate, in order.
func Expand[P any, E cmp.Ordered, Q any](extensions []Extension[P, E], combine func(P, E) Q) []Q {
	total := 0
	for _, x := range extensions {
		total += len(x.Candidates)
	}
	out := make([]Q, 0, total)
	for _, x := range extensions {
		for _, c := range x.Candidates {
			out = append(out, combine(x.Prefix, c))
		}
	}
	return out
}
