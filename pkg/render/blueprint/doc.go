// Package blueprint draws floor layouts as SVG blueprints.
//
// Rooms are filled by kind (stairs, hallway, restroom, regular) and outlined
// in the color of their maintenance status when they carry requests. Each
// room shows its number, a truncated name, a status dot and a red badge with
// the request count. Optional layers add a measuring grid, per-room
// dimensions, a scale bar and a status legend.
//
// # Styles
//
// [Blueprint] is the dark drafting-table look; [Print] uses a white page
// for paper output. Both implement [Style], so callers can supply their own.
//
// # Filtering
//
// Rooms that fail the [floor.Filter] passed to [WithFilter] stay on the map
// but are dimmed, which keeps the floor readable while a search is active.
//
//	svg := blueprint.RenderSVG(layout,
//	    blueprint.WithStyle(blueprint.Print{}),
//	    blueprint.WithGrid(),
//	    blueprint.WithFilter(floor.Filter{Status: floor.StatusPending}),
//	)
package blueprint
