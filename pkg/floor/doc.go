// Package floor generates the static floor plans of the campus facility map.
//
// # Overview
//
// A floor plan is a [Layout]: an ordered list of [Room] rectangles in a
// floor-local coordinate space plus the canvas size that contains them.
// Plans are hand-derived per building and floor; there is no general layout
// algorithm. What is shared is the way each plan is built: rooms are placed
// one after another along a running cursor with a fixed gap, hallways are
// derived from the extent of the rooms they connect, and the canvas is the
// maximum of a few bounding computations.
//
// # Placement primitives
//
//   - [Row]: places rectangles left to right along a fixed y
//   - [Column]: places rectangles top to bottom
//   - [Span] and [Hallway]: a corridor covering the horizontal extent of rooms
//   - [StackCentered]: two compartments stacked with a gap and vertically
//     centered against a taller neighbour (restroom pairs)
//   - [CenterIn]: centers a single item inside a taller one
//
// Every plan keeps its distinctive offsets as named constants so an edit to an
// early room's width propagates to everything placed after it.
//
// # Registry
//
// [DefaultRegistry] holds the buildings and their floors in display order.
// [Generate] looks up a plan and returns its layout. Unknown pairs return an
// empty layout with an 800×600 canvas instead of an error:
//
//	l := floor.Generate("DFA BUILDING", "2ND FLOOR")
//	a4, _ := l.Room("A4") // pending, 1 request
//
// # Checks and filters
//
// [Check] verifies that a layout is well formed: positive sizes, every room
// inside the canvas, and no two rooms intersecting. [Filter] selects rooms by
// status and by a case-insensitive search term.
package floor
