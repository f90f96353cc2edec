// Package schematic renders floor layouts as Graphviz diagrams.
//
// Each room becomes a box pinned at its floor position, filled with its
// status color. Rooms are linked to the hallways they open onto, which turns
// the floor into a small connectivity graph that reads well when printed or
// piped into other Graphviz tooling.
//
//	dot := schematic.ToDOT(layout, schematic.Options{Detailed: true})
//	svg, err := schematic.RenderSVG(ctx, dot)
//
// Positions are pinned, so the neato engine only routes the edges.
package schematic
