package motif

import (
	"strconv"

	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/intersect"
	"github.com/matzehuels/gjoin/pkg/join"
)

type extenders = []join.PrefixExtender[join.Tuple[uint32], uint32]

// Compile builds the GenericJoin query for p: one layer per attribute after
// the first, each with one graph extender per incoming pattern edge. gt is
// the transpose of g and may be nil when p has no backward edges.
//
// The result owns fresh extenders; compile once per worker.
func Compile(p Pattern, g, gt *graphmap.Graph, ix intersect.Intersector) (*join.Query[uint32], error) {
	if p.NeedsTranspose() && gt == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pattern %s reads in-neighbors but no transpose was given", p)
	}

	q := &join.Query[uint32]{Name: p.String()}
	for k := 1; k < p.Arity; k++ {
		var exts extenders
		for _, e := range p.Incoming(k) {
			if e.From < e.To {
				exts = append(exts, join.NewGraphExtender(g, join.Attr(e.From), ix))
			} else {
				exts = append(exts, join.NewGraphExtender(gt, join.Attr(e.To), ix))
			}
		}
		q.Layers = append(q.Layers, join.Layer[uint32]{
			Name:      "attr " + strconv.Itoa(k),
			Extenders: exts,
		})
	}
	return q, nil
}
