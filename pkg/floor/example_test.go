package floor_test

import (
	"fmt"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

func ExampleGenerate() {
	l := floor.Generate(floor.DFABuilding, floor.SecondFloor)
	a4, _ := l.Room("A4")

	fmt.Printf("canvas %gx%g, %d rooms\n", l.CanvasWidth, l.CanvasHeight, len(l.Rooms))
	fmt.Println(a4)
	// Output:
	// canvas 1015x390, 18 rooms
	// A4 (A4) pending/1
}

func ExampleFilter() {
	rooms := floor.Generate(floor.Annex, floor.ThirdFloor).Rooms
	for _, r := range (floor.Filter{Search: "comlab", Status: floor.StatusPending}).Apply(rooms) {
		fmt.Println(r.Number)
	}
	// Output:
	// COMLAB 1
	// COMLAB 4
}

func ExampleRow() {
	row := floor.NewRow(50, 50, 15)
	for _, w := range []float64{220, 80, 80} {
		r := row.Next(w, 80)
		fmt.Printf("x=%g ", r.X)
	}
	fmt.Println()
	// Output:
	// x=50 x=285 x=380
}
