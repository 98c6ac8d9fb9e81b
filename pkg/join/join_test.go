package join

import (
	"context"
	"slices"
	"testing"

	"go.uber.org/goleak"

	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/graphmap"
	"github.com/matzehuels/gjoin/pkg/intersect"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// listExtender proposes a fixed ascending list for every prefix whose
// attribute attr is in values, and nothing otherwise.
type listExtender struct {
	attr   int
	values map[uint32][]uint32
}

func (e listExtender) Count(p Tuple[uint32]) uint64 {
	return uint64(len(e.values[p[e.attr]]))
}

func (e listExtender) Propose(p Tuple[uint32]) []uint32 {
	return slices.Clone(e.values[p[e.attr]])
}

func (e listExtender) Intersect(p Tuple[uint32], c []uint32) []uint32 {
	return intersect.Filter(intersect.Default, c, e.values[p[e.attr]])
}

func (e listExtender) Route(p Tuple[uint32]) uint64 {
	return uint64(p[e.attr])
}

// sampleGraph has edges 0→1, 0→2, 1→2, 2→0 on four nodes.
func sampleGraph(t *testing.T) *graphmap.Graph {
	t.Helper()
	g, err := graphmap.FromAdjacency([][]uint32{{1, 2}, {2}, {0}, {}})
	if err != nil {
		t.Fatalf("FromAdjacency: %v", err)
	}
	return g
}

func extenders(es ...PrefixExtender[Tuple[uint32], uint32]) []PrefixExtender[Tuple[uint32], uint32] {
	return es
}

func TestExtendLayerOwnership(t *testing.T) {
	small := listExtender{values: map[uint32][]uint32{0: {1, 2, 3}, 1: {1, 2}}}
	large := listExtender{values: map[uint32][]uint32{0: {2, 3, 4, 5}, 1: {1}}}

	exts, st := ExtendLayer([]Tuple[uint32]{{0}, {1}}, extenders(small, large))
	if st.Owners[0] != 1 || st.Owners[1] != 1 {
		t.Fatalf("Owners = %v, want [1 1]", st.Owners)
	}
	// Output is grouped by owner: extender 0 owns {0}, extender 1 owns {1}.
	want := []Extension[Tuple[uint32], uint32]{
		{Prefix: Tuple[uint32]{0}, Candidates: []uint32{2, 3}},
		{Prefix: Tuple[uint32]{1}, Candidates: []uint32{1}},
	}
	if len(exts) != len(want) {
		t.Fatalf("got %d extensions, want %d", len(exts), len(want))
	}
	for i := range want {
		if !slices.Equal(exts[i].Prefix, want[i].Prefix) || !slices.Equal(exts[i].Candidates, want[i].Candidates) {
			t.Errorf("extension %d = %v, want %v", i, exts[i], want[i])
		}
	}
	if st.Proposed != 4 || st.Candidates != 3 {
		t.Errorf("Proposed=%d Candidates=%d, want 4 and 3", st.Proposed, st.Candidates)
	}
}

func TestExtendLayerTieGoesToLowestIndex(t *testing.T) {
	a := listExtender{values: map[uint32][]uint32{0: {1, 2}}}
	b := listExtender{values: map[uint32][]uint32{0: {2, 3}}}

	_, st := ExtendLayer([]Tuple[uint32]{{0}}, extenders(a, b))
	if !slices.Equal(st.Owners, []int{1, 0}) {
		t.Errorf("Owners = %v, want [1 0]", st.Owners)
	}
	_, st = ExtendLayer([]Tuple[uint32]{{0}}, extenders(b, a))
	if !slices.Equal(st.Owners, []int{1, 0}) {
		t.Errorf("swapped Owners = %v, want [1 0]", st.Owners)
	}
}

func TestExtendLayerDrops(t *testing.T) {
	full := listExtender{values: map[uint32][]uint32{0: {1}, 1: {1}, 2: {5}}}
	partial := listExtender{values: map[uint32][]uint32{0: {1}, 2: {6}}}

	exts, st := ExtendLayer([]Tuple[uint32]{{0}, {1}, {2}}, extenders(full, partial))
	if st.ZeroCount != 1 {
		t.Errorf("ZeroCount = %d, want 1", st.ZeroCount)
	}
	if st.Emptied != 1 {
		t.Errorf("Emptied = %d, want 1", st.Emptied)
	}
	if len(exts) != 1 || exts[0].Prefix[0] != 0 {
		t.Errorf("extensions = %v, want only prefix {0}", exts)
	}
	if st.Extended != 1 || st.Prefixes != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestExtendLayerNoExtenders(t *testing.T) {
	exts, st := ExtendLayer[Tuple[uint32], uint32]([]Tuple[uint32]{{0}}, nil)
	if len(exts) != 0 || st.ZeroCount != 1 {
		t.Errorf("got %v, %+v", exts, st)
	}
}

func TestExpand(t *testing.T) {
	exts := []Extension[Tuple[uint32], uint32]{
		{Prefix: Tuple[uint32]{0}, Candidates: []uint32{1, 2}},
		{Prefix: Tuple[uint32]{3}, Candidates: []uint32{4}},
	}
	got := Expand(exts, Tuple[uint32].Extend)
	want := []Tuple[uint32]{{0, 1}, {0, 2}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTupleExtendDoesNotAlias(t *testing.T) {
	base := make(Tuple[uint32], 1, 8)
	a := base.Extend(1)
	b := base.Extend(2)
	if a[1] != 1 || b[1] != 2 {
		t.Errorf("a=%v b=%v", a, b)
	}
}

func TestGraphExtender(t *testing.T) {
	g := sampleGraph(t)
	e := NewGraphExtender(g, Attr(0), intersect.Default)

	if got := e.Count(Tuple[uint32]{0}); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	p := e.Propose(Tuple[uint32]{0})
	p[0] = 99
	if g.Edges(0)[0] != 1 {
		t.Error("Propose returned storage shared with the graph")
	}
	if got := e.Intersect(Tuple[uint32]{0}, []uint32{0, 2, 3}); !slices.Equal(got, []uint32{2}) {
		t.Errorf("Intersect = %v, want [2]", got)
	}
	if got := e.Route(Tuple[uint32]{2}); got != 2 {
		t.Errorf("Route = %d, want 2", got)
	}
}

// triangleBuild binds a=node shard, b∈N(a), c∈N(a)∩N(b).
func triangleBuild(g *graphmap.Graph) Build[uint32] {
	return func(w *dataflow.Worker) (*Query[uint32], []Tuple[uint32], error) {
		q := &Query[uint32]{
			Name: "triangles",
			Layers: []Layer[uint32]{
				{Name: "b", Extenders: extenders(NewGraphExtender(g, Attr(0), intersect.Default))},
				{Name: "c", Extenders: extenders(
					NewGraphExtender(g, Attr(0), intersect.Default),
					NewGraphExtender(g, Attr(1), intersect.Default),
				)},
			},
		}
		var seed []Tuple[uint32]
		for id := range w.Nodes(g.NodeCount()) {
			seed = append(seed, Tuple[uint32]{id})
		}
		return q, seed, nil
	}
}

func TestExecutorTriangle(t *testing.T) {
	g := sampleGraph(t)
	for _, workers := range []int{1, 2, 3, 4} {
		c, err := dataflow.NewCluster(workers, nil)
		if err != nil {
			t.Fatal(err)
		}
		x := NewExecutor[uint32](c, nil)

		res, err := x.Count(context.Background(), triangleBuild(g))
		if err != nil {
			t.Fatalf("workers=%d: Count: %v", workers, err)
		}
		if res.Rows != 1 {
			t.Errorf("workers=%d: rows = %d, want 1", workers, res.Rows)
		}
		if len(res.Layers) != 2 || res.Layers[0].Prefixes != 4 {
			t.Errorf("workers=%d: layers = %+v", workers, res.Layers)
		}

		rows, _, err := x.Collect(context.Background(), triangleBuild(g))
		if err != nil {
			t.Fatalf("workers=%d: Collect: %v", workers, err)
		}
		if len(rows) != 1 || !slices.Equal(rows[0], Tuple[uint32]{0, 1, 2}) {
			t.Errorf("workers=%d: rows = %v, want [[0 1 2]]", workers, rows)
		}
	}
}

func TestExecutorEmptyGraph(t *testing.T) {
	g, err := graphmap.FromAdjacency([][]uint32{{}, {}, {}})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := dataflow.NewCluster(2, nil)
	res, err := NewExecutor[uint32](c, nil).Count(context.Background(), triangleBuild(g))
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows != 0 {
		t.Errorf("rows = %d, want 0", res.Rows)
	}
	if res.Layers[1].Prefixes != 0 {
		t.Errorf("second layer saw %d prefixes, want 0", res.Layers[1].Prefixes)
	}
}

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name string
		q    Query[uint32]
	}{
		{"no layers", Query[uint32]{Name: "q"}},
		{"empty layer", Query[uint32]{Name: "q", Layers: []Layer[uint32]{{Name: "b"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.q.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExecutorBuildError(t *testing.T) {
	c, _ := dataflow.NewCluster(3, nil)
	x := NewExecutor[uint32](c, nil)
	g := sampleGraph(t)
	build := func(w *dataflow.Worker) (*Query[uint32], []Tuple[uint32], error) {
		if w.Index() == 1 {
			return &Query[uint32]{Name: "broken"}, nil, nil
		}
		return triangleBuild(g)(w)
	}
	if _, err := x.Count(context.Background(), build); err == nil {
		t.Fatal("expected error from a worker with an invalid query")
	}
}

// dropQuery binds three attributes after a0. Seed 2 counts zero in the first
// layer, prefix (1 3) intersects to nothing in the second, and (0 1 6)
// counts zero in the third.
func dropQuery(w *dataflow.Worker) (*Query[uint32], []Tuple[uint32], error) {
	q := &Query[uint32]{
		Name: "drops",
		Layers: []Layer[uint32]{
			{Name: "a1", Extenders: extenders(
				listExtender{attr: 0, values: map[uint32][]uint32{0: {1, 2}, 1: {3}}},
			)},
			{Name: "a2", Extenders: extenders(
				listExtender{attr: 1, values: map[uint32][]uint32{1: {5, 6}, 2: {7}, 3: {8}}},
				listExtender{attr: 0, values: map[uint32][]uint32{0: {5, 6, 7}, 1: {9}}},
			)},
			{Name: "a3", Extenders: extenders(
				listExtender{attr: 2, values: map[uint32][]uint32{5: {10}, 7: {11, 12}}},
			)},
		},
	}
	var seed []Tuple[uint32]
	for id := range w.Nodes(3) {
		seed = append(seed, Tuple[uint32]{id})
	}
	return q, seed, nil
}

func TestRunDropsPrefixesAcrossLayers(t *testing.T) {
	want := []Tuple[uint32]{{0, 1, 5, 10}, {0, 2, 7, 11}, {0, 2, 7, 12}}

	for _, workers := range []int{1, 2, 3} {
		c, err := dataflow.NewCluster(workers, nil)
		if err != nil {
			t.Fatal(err)
		}
		rows, res, err := NewExecutor[uint32](c, nil).Collect(context.Background(), dropQuery)
		if err != nil {
			t.Fatalf("workers=%d: Collect: %v", workers, err)
		}

		slices.SortFunc(rows, func(a, b Tuple[uint32]) int { return slices.Compare(a, b) })
		if len(rows) != len(want) {
			t.Fatalf("workers=%d: rows = %v, want %v", workers, rows, want)
		}
		for i := range want {
			if !slices.Equal(rows[i], want[i]) {
				t.Errorf("workers=%d: row %d = %v, want %v", workers, i, rows[i], want[i])
			}
		}

		if len(res.Layers) != 3 {
			t.Fatalf("workers=%d: %d layers, want 3", workers, len(res.Layers))
		}
		tests := []struct {
			layer, prefixes, zero, emptied int
		}{
			{0, 3, 1, 0},
			{1, 3, 0, 1},
			{2, 3, 1, 0},
		}
		for _, tt := range tests {
			st := res.Layers[tt.layer]
			if st.Prefixes != tt.prefixes || st.ZeroCount != tt.zero || st.Emptied != tt.emptied {
				t.Errorf("workers=%d: layer %d Prefixes=%d ZeroCount=%d Emptied=%d, want %d %d %d",
					workers, tt.layer, st.Prefixes, st.ZeroCount, st.Emptied, tt.prefixes, tt.zero, tt.emptied)
			}
		}

		n, err := NewExecutor[uint32](c, nil).Count(context.Background(), dropQuery)
		if err != nil {
			t.Fatalf("workers=%d: Count: %v", workers, err)
		}
		if n.Rows != uint64(len(want)) {
			t.Errorf("workers=%d: Count rows = %d, want %d", workers, n.Rows, len(want))
		}
	}
}
