package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/gjoin/pkg/join"
	"github.com/matzehuels/gjoin/pkg/motif"
)

// PlanOptions configures plan rendering.
type PlanOptions struct {
	// Stats, when set, holds merged per-layer statistics of a run; entry
	// k-1 belongs to attribute k.
	Stats []join.LayerStats
}

// PlanDOT converts a pattern's binding plan to Graphviz DOT.
func PlanDOT(p motif.Pattern, opts PlanOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph plan {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	for k := 0; k < p.Arity; k++ {
		fmt.Fprintf(&buf, "  a%d [label=%q];\n", k, nodeLabel(k, opts.Stats))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		if e.From < e.To {
			fmt.Fprintf(&buf, "  a%d -> a%d [label=%q];\n", e.From, e.To, fmt.Sprintf("out(a%d)", e.From))
		} else {
			fmt.Fprintf(&buf, "  a%d -> a%d [label=%q, style=dashed];\n", e.To, e.From, fmt.Sprintf("in(a%d)", e.To))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(k int, stats []join.LayerStats) string {
	label := fmt.Sprintf("a%d", k)
	if k == 0 {
		return label + "\nseed"
	}
	if k-1 >= len(stats) {
		return label
	}
	st := stats[k-1]
	return fmt.Sprintf("%s\nprefixes: %d\ncandidates: %d", label, st.Prefixes, st.Candidates)
}
