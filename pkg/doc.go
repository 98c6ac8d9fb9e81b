// Package pkg provides the core libraries for gjoin graph pattern queries.
//
// # Overview
//
// gjoin counts and lists matches of small directed edge patterns (triangles,
// cycles, cliques) in large graphs with GenericJoin, a worst-case optimal
// multiway join. The join binds one attribute at a time: for each partial
// match it asks every relation how many candidates it would propose, lets
// the cheapest one propose, and filters the proposal through the rest.
//
// The typical data flow:
//
//	edge list
//	    ↓
//	[graphmap] (sorted adjacency file, memory-mapped)
//	    ↓
//	[motif] (pattern → one GraphExtender per pattern edge)
//	    ↓
//	[join] (count → partition → propose → intersect, per layer)
//	    ↓
//	[dataflow] (workers exchange prefixes between layers)
//	    ↓
//	match count / tuples
//
// # Quick Start
//
//	g, _ := graphmap.Open("livejournal.graph")
//	defer g.Close()
//
//	c, _ := dataflow.NewCluster(4, logger)
//	p, _ := motif.ParsePattern("0-1,0-2,1-2")
//	res, _ := motif.Count(ctx, c, g, p, motif.Options{Intersector: intersect.Default})
//	fmt.Println(res.Rows)
//
// # Main Packages
//
// ## Core
//
// [graphmap] - Immutable sorted adjacency lists in a flat file: node count,
// N+1 offsets, then the neighbor ids. Files are memory-mapped and shared
// read-only by every worker.
//
// [intersect] - Intersection of ascending sequences by merge or galloping
// search, chosen per call by the length ratio.
//
// [join] - The PrefixExtender contract, the graph-backed extender, and the
// layered GenericJoin executor.
//
// [dataflow] - In-process worker clusters with keyed exchange, broadcast,
// all-reduce and a bounded iteration loop.
//
// ## Workloads
//
// [motif] - Pattern parsing, compilation to join queries, and brute-force
// test oracles.
//
// [pagerank] - Iterative PageRank on the dataflow loop construct.
//
// ## Infrastructure
//
// [pipeline] - Runs queries with result caching; used by the CLI.
//
// [cache] - Result cache backends: null, file (XDG cache dir) and Redis.
//
// [config] - TOML configuration with defaults and validation.
//
// [observability] - Join and cache hooks with a Prometheus implementation.
//
// [render] - Attribute-order plans as Graphviz DOT, SVG, PNG or PDF.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/join/...      # Specific package
//	go test -run Example ./...  # Examples only
//
// [graphmap]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/graphmap
// [intersect]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/intersect
// [join]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/join
// [dataflow]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/dataflow
// [motif]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/motif
// [pagerank]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/pagerank
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/gjoin/pkg/errors
package pkg
