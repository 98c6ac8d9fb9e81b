package graphmap_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gjoin/pkg/graphmap"
)

func ExampleReadEdgeList() {
	edges := "# src dst\n0 2\n0 1\n1 2\n0 1\n"
	g, stats, err := graphmap.ReadEdgeList(strings.NewReader(edges), graphmap.EdgeListOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(g.NodeCount(), g.EdgeCount(), stats.Duplicates)
	fmt.Println(g.Edges(0))
	// Output:
	// 3 3 1
	// [1 2]
}

func ExampleGraph_Neighbors() {
	g, _ := graphmap.FromAdjacency([][]uint32{{1, 2}, {2}, {}})
	ns, _ := g.Neighbors(0)
	fmt.Println(ns)
	if _, err := g.Neighbors(7); err != nil {
		fmt.Println("error:", err != nil)
	}
	// Output:
	// [1 2]
	// error: true
}
