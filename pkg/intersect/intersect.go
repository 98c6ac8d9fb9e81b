package intersect

import "cmp"

// DefaultCrossover is the size ratio above which galloping replaces merging.
const DefaultCrossover = 4

// Default is an Intersector using DefaultCrossover.
var Default = Intersector{Crossover: DefaultCrossover}

// Intersector chooses between merge and gallop by input size.
//
// Gallop is used when len(small) < len(large)/Crossover. A Crossover of zero
// or less disables galloping.
type Intersector struct {
	Crossover int
}

// gallops reports whether a (the shorter input) should be galloped into b.
func (x Intersector) gallops(a, b int) bool {
	return x.Crossover > 0 && a < b/x.Crossover
}

// Count returns |a ∩ b|.
func Count[T cmp.Ordered](x Intersector, a, b []T) uint64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	if x.gallops(len(a), len(b)) {
		return GallopCount(a, b)
	}
	return MergeCount(a, b)
}

// Filter restricts dst in place to the elements that also occur in other and
// returns the shortened slice. Survivors keep their ascending order; the
// elements past the returned length are unspecified.
func Filter[T cmp.Ordered](x Intersector, dst, other []T) []T {
	if len(dst) == 0 || len(other) == 0 {
		return dst[:0]
	}
	switch {
	case x.gallops(len(dst), len(other)):
		return GallopFilter(dst, other)
	case x.gallops(len(other), len(dst)):
		return probeFilter(dst, other)
	default:
		return MergeFilter(dst, other)
	}
}

// MergeCount counts common elements with a two-pointer scan.
func MergeCount[T cmp.Ordered](a, b []T) uint64 {
	var count uint64
	for len(a) > 0 && len(b) > 0 {
		switch {
		case a[0] < b[0]:
			a = a[1:]
		case a[0] > b[0]:
			b = b[1:]
		default:
			a, b = a[1:], b[1:]
			count++
		}
	}
	return count
}

// GallopCount counts the elements of a found in b, galloping through b.
// It is efficient when a is much shorter than b.
func GallopCount[T cmp.Ordered](a, b []T) uint64 {
	var count uint64
	for _, v := range a {
		b = Gallop(b, v)
		if len(b) == 0 {
			break
		}
		if b[0] == v {
			count++
		}
	}
	return count
}

// MergeFilter keeps the elements of dst present in other, by merging.
func MergeFilter[T cmp.Ordered](dst, other []T) []T {
	out := 0
	i, j := 0, 0
	for i < len(dst) && j < len(other) {
		switch {
		case dst[i] < other[j]:
			i++
		case dst[i] > other[j]:
			j++
		default:
			dst[out] = dst[i]
			out++
			i++
			j++
		}
	}
	return dst[:out]
}

// GallopFilter keeps the elements of dst present in other, galloping through
// other. It is efficient when dst is much shorter than other.
func GallopFilter[T cmp.Ordered](dst, other []T) []T {
	out := 0
	for _, v := range dst {
		other = Gallop(other, v)
		if len(other) == 0 {
			break
		}
		if other[0] == v {
			dst[out] = v
			out++
		}
	}
	return dst[:out]
}

// probeFilter is GallopFilter with the roles swapped: other is the short
// side, and each of its elements gallops through the remaining dst. Matches
// are compacted to the front of dst; out never passes the read position, so
// the remaining suffix is untouched.
func probeFilter[T cmp.Ordered](dst, other []T) []T {
	out, pos := 0, 0
	for _, v := range other {
		rest := Gallop(dst[pos:], v)
		pos = len(dst) - len(rest)
		if len(rest) == 0 {
			break
		}
		if rest[0] == v {
			dst[out] = v
			out++
			pos++
		}
	}
	return dst[:out]
}
