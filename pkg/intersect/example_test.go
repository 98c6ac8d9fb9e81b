package intersect_test

import (
	"fmt"

	"github.com/matzehuels/gjoin/pkg/intersect"
)

func ExampleGallop() {
	s := []uint32{1, 3, 5, 7, 9, 11}
	fmt.Println(intersect.Gallop(s, 6))
	fmt.Println(intersect.Gallop(s, 12))
	// Output:
	// [7 9 11]
	// []
}

func ExampleFilter() {
	candidates := []uint32{2, 3, 5, 7, 11, 13}
	neighbors := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	fmt.Println(intersect.Filter(intersect.Default, candidates, neighbors))
	// Output:
	// [2 3 5 7]
}
