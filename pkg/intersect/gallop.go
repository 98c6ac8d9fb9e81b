package intersect

import "cmp"

// Gallop returns the suffix of s starting at the smallest index i with
// s[i] >= key, or an empty slice if there is none. s must be ascending.
//
// The search doubles its step from the front of s until it overshoots, then
// halves back down, so the cost is logarithmic in the distance advanced
// rather than in len(s). Calling Gallop again with the same key on its own
// result returns the result unchanged.
func Gallop[T cmp.Ordered](s []T, key T) []T {
	if len(s) == 0 || s[0] >= key {
		return s
	}

	// Invariant: s[0] < key.
	step := 1
	for step < len(s) && s[step] < key {
		s = s[step:]
		step <<= 1
	}

	step >>= 1
	for step > 0 {
		if step < len(s) && s[step] < key {
			s = s[step:]
		}
		step >>= 1
	}

	// s[0] is the last element < key.
	return s[1:]
}
