// Package motif counts small directed subgraph patterns with GenericJoin.
//
// A [Pattern] is a list of directed edges between attribute indices, written
// "0-1,0-2,1-2" for the feed-forward triangle. Attributes are bound in index
// order: attribute 0 is seeded from each worker's node shard, and every later
// attribute is proposed by the relations that connect it to earlier ones.
// An edge i→k with i < k reads out-neighbors of the node bound to i; an edge
// k→i reads in-neighbors, so patterns with such edges need the transpose.
//
// Counts are homomorphism counts: distinct attributes may bind the same node
// when the graph has self loops.
//
// [RawTriangles] is the single-threaded reference for the triangle pattern
// and is what `gjoin triangles` runs without --workers.
package motif
