package motif

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// Triangle is the feed-forward triangle a→b, a→c, b→c.
const Triangle = "0-1,0-2,1-2"

// Edge is a directed pattern edge between attribute indices.
type Edge struct {
	From, To int
}

func (e Edge) String() string {
	return strconv.Itoa(e.From) + "-" + strconv.Itoa(e.To)
}

// Pattern is a parsed, validated motif over Arity attributes.
type Pattern struct {
	Arity int
	Edges []Edge
}

// ParsePattern parses a comma separated list of "i-j" edges. Attribute
// indices must cover 0..k without gaps, and every attribute after 0 needs an
// edge to a lower one. Self edges and duplicates are rejected.
func ParsePattern(s string) (Pattern, error) {
	if err := errors.ValidatePatternSyntax(s); err != nil {
		return Pattern{}, err
	}

	var p Pattern
	seen := make(map[Edge]bool)
	for _, part := range strings.Split(s, ",") {
		from, to, _ := strings.Cut(part, "-")
		e := Edge{From: atoi(from), To: atoi(to)}
		if e.From == e.To {
			return Pattern{}, errors.New(errors.ErrCodeInvalidPattern, "pattern edge %s is a self loop", e)
		}
		if seen[e] {
			return Pattern{}, errors.New(errors.ErrCodeInvalidPattern, "pattern edge %s appears twice", e)
		}
		seen[e] = true
		p.Edges = append(p.Edges, e)
		p.Arity = max(p.Arity, e.From+1, e.To+1)
	}

	if p.Arity > maxArity {
		return Pattern{}, errors.New(errors.ErrCodeInvalidPattern, "pattern has %d attributes, at most %d are supported", p.Arity, maxArity)
	}
	for k := 1; k < p.Arity; k++ {
		if len(p.Incoming(k)) == 0 {
			return Pattern{}, errors.New(errors.ErrCodeInvalidPattern, "attribute %d has no edge to a lower attribute", k)
		}
	}
	return p, nil
}

const maxArity = 16

// atoi parses an index already matched by the pattern syntax check.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n > maxArity {
		return maxArity + 1
	}
	return n
}

// Incoming returns the edges that connect attribute k to lower attributes,
// in pattern order.
func (p Pattern) Incoming(k int) []Edge {
	var out []Edge
	for _, e := range p.Edges {
		if max(e.From, e.To) == k {
			out = append(out, e)
		}
	}
	return out
}

// NeedsTranspose reports whether any edge points from a later attribute to
// an earlier one.
func (p Pattern) NeedsTranspose() bool {
	return slices.ContainsFunc(p.Edges, func(e Edge) bool { return e.From > e.To })
}

// String returns the canonical form of the pattern.
func (p Pattern) String() string {
	parts := make([]string, len(p.Edges))
	for i, e := range p.Edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, ",")
}

// Describe returns a short human description, e.g. "3 attributes, 3 edges".
func (p Pattern) Describe() string {
	return fmt.Sprintf("%d attributes, %d edges", p.Arity, len(p.Edges))
}
