package graphmap

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/gjoin/pkg/errors"
)

func TestReadEdgeList(t *testing.T) {
	input := `# directed sample
0 2
0 1
0 1
1 2
% matrix-market style comment
2 0 17
`
	g, stats, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{})
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if stats.Lines != 5 {
		t.Errorf("Lines = %d, want 5", stats.Lines)
	}
	if stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", stats.Duplicates)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if got := g.Edges(0); !slices.Equal(got, []uint32{1, 2}) {
		t.Errorf("Edges(0) = %v, want [1 2]", got)
	}
}

func TestReadEdgeListOptions(t *testing.T) {
	input := "0 1\n1 1\n2 1\n"

	t.Run("undirected", func(t *testing.T) {
		g, _, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{Undirected: true})
		if err != nil {
			t.Fatalf("ReadEdgeList: %v", err)
		}
		if got := g.Edges(1); !slices.Equal(got, []uint32{0, 1, 2}) {
			t.Errorf("Edges(1) = %v, want [0 1 2]", got)
		}
	})

	t.Run("drop self loops", func(t *testing.T) {
		g, stats, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{DropSelfLoops: true})
		if err != nil {
			t.Fatalf("ReadEdgeList: %v", err)
		}
		if stats.SelfLoops != 1 {
			t.Errorf("SelfLoops = %d, want 1", stats.SelfLoops)
		}
		if g.Degree(1) != 0 {
			t.Errorf("Degree(1) = %d, want 0", g.Degree(1))
		}
	})

	t.Run("forced node count", func(t *testing.T) {
		g, _, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{Nodes: 10})
		if err != nil {
			t.Fatalf("ReadEdgeList: %v", err)
		}
		if g.NodeCount() != 10 {
			t.Errorf("NodeCount() = %d, want 10", g.NodeCount())
		}
	})

	t.Run("node count too small", func(t *testing.T) {
		_, _, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{Nodes: 2})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("error = %v, want INVALID_INPUT", err)
		}
	})
}

func TestReadEdgeListMalformed(t *testing.T) {
	for _, input := range []string{"0\n", "a b\n", "0 -1\n", "0 99999999999\n"} {
		_, _, err := ReadEdgeList(strings.NewReader(input), EdgeListOptions{})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ReadEdgeList(%q) error = %v, want INVALID_INPUT", input, err)
		}
	}
}

func TestReadEdgeListBoundsIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  EdgeListOptions
	}{
		{"max uint32 id without node count", "4294967295 0\n", EdgeListOptions{}},
		{"id past implicit limit", "0 268435456\n", EdgeListOptions{}},
		{"id past forced node count", "0 1\n7 2\n", EdgeListOptions{Nodes: 5}},
		{"forced node count too large", "0 1\n", EdgeListOptions{Nodes: 1 << 32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadEdgeList(strings.NewReader(tt.input), tt.opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestReadEdgeListEmpty(t *testing.T) {
	g, _, err := ReadEdgeList(strings.NewReader("# nothing\n"), EdgeListOptions{})
	if err != nil {
		t.Fatalf("ReadEdgeList: %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("got %d nodes / %d edges, want empty graph", g.NodeCount(), g.EdgeCount())
	}
}
