// Package render draws GenericJoin query plans.
//
// A plan is the attribute binding order of a motif: one node per attribute,
// and one edge per pattern edge, drawn from the attribute whose neighbor
// list proposes or filters to the attribute it binds. Forward edges read
// out-neighbors; backward edges read in-neighbors of the transpose and are
// dashed.
//
//	dot := render.PlanDOT(p, render.PlanOptions{})
//	svg, err := render.RenderSVG(dot)
//
// When layer statistics from a run are supplied, each attribute node is
// annotated with the prefixes that reached it and the candidates that
// survived.
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]. PDF and PNG conversion shells out to
// rsvg-convert (librsvg).
package render
