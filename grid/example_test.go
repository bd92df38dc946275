package grid_test

import (
	"fmt"

	"github.com/katalvlaran/warepath/grid"
)

// ExampleGrid_Neighbors shows the fixed north, south, west, east order and
// that walls are never offered as neighbours.
func ExampleGrid_Neighbors() {
	g, _ := grid.DecodeLayout([][]string{
		{"p", "p", "p"},
		{"W", "p", "0"},
		{"p", "p", "p"},
	})
	fmt.Println(g.Neighbors(grid.At(1, 1)))

	// Output:
	// [0,1 2,1 1,2]
}
