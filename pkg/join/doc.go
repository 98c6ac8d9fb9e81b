// Package join implements GenericJoin, a worst-case-optimal multiway join
// evaluated one attribute at a time.
//
// # Algorithm
//
// A query binds its output attributes in a caller-chosen order. Starting from
// a set of seed prefixes, each [Layer] extends every prefix by one attribute:
//
//  1. Count: every [PrefixExtender] reports how many values it would propose
//     for the prefix. The prefix is owned by the extender with the smallest
//     count (lowest index on ties). A zero count drops the prefix at once.
//  2. Partition: prefixes are grouped by owner.
//  3. Propose: the owner materializes its candidates.
//  4. Intersect: every other extender, in declaration order, restricts the
//     candidates in place. An empty result drops the prefix.
//  5. Expand: each surviving candidate yields one longer prefix.
//
// Proposing from the locally cheapest relation and validating against all the
// others is what bounds the work by the AGM (fractional edge cover) bound of
// the query. Intersecting all relations symmetrically would lose it.
//
// # Execution
//
// [ExtendLayer] is the single-worker core. [Executor] runs a whole query on a
// dataflow cluster: between layers the prefixes are exchanged by the layer's
// route, and every exchange is a barrier, so layer k+1 starts only once layer
// k is complete everywhere. Each worker builds its own [Query], so extenders
// are never shared between goroutines.
//
// Relations are assumed replicated on every worker (every worker maps the
// whole graph), which is what makes the per-worker minimum count exact.
package join
