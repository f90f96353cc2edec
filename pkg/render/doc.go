// Package render holds format conversion shared by the floor renderers.
//
// # Overview
//
// The renderers in the subpackages produce SVG:
//
//   - [blueprint]: the status-colored floor map
//   - [schematic]: a Graphviz drawing of the same rooms
//
// [ToPDF] and [ToPNG] convert any of that SVG to other formats with the
// external rsvg-convert tool (from librsvg).
//
//	svg := blueprint.RenderSVG(layout, blueprint.WithGrid())
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [blueprint]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/render/blueprint
// [schematic]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/render/schematic
package render
