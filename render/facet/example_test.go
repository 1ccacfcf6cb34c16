package facet_test

import (
	"fmt"

	"github.com/cwbudde/algo-render/render/facet"
)

func ExampleFacet() {
	storage := [][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7},
	}

	var f facet.Facet
	f.Reserve(1)
	f.SetStorage(storage, nil)
	f.SetFrameCount(8)
	f.SetOffset(2)

	window := f.Pointers()
	fmt.Println(window[0])

	f.Unlink()
	fmt.Println(f.Pointers() == nil)

	// Output:
	// [2 3 4 5 6 7]
	// true
}
