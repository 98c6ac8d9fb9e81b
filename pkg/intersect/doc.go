// Package intersect computes intersections of ascending, duplicate-free
// sequences.
//
// Two strategies are provided:
//
//   - Merge: a two-pointer scan, O(a+b).
//   - Gallop: for each element of the smaller sequence, locate it in the
//     remaining suffix of the larger one by exponential then binary search,
//     O(a·log(b/a)).
//
// [Intersector] picks between them per call. Galloping wins when the smaller
// input is much shorter than the larger one; the crossover ratio is a tuning
// knob ([DefaultCrossover] = 4) and should be measured rather than trusted.
//
// Every function assumes its inputs are strictly ascending. That is a caller
// precondition and is never checked at run time.
package intersect
