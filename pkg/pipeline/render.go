package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/render"
	"github.com/matzehuels/facilitymap/pkg/render/blueprint"
	"github.com/matzehuels/facilitymap/pkg/render/schematic"
	"github.com/matzehuels/facilitymap/pkg/report"
)

// RenderLayout generates output artifacts in the requested formats without
// consulting a cache. Options must already carry defaults.
func RenderLayout(ctx context.Context, l floor.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	drawSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		if opts.IsSchematic() {
			svg, err = schematic.RenderSVG(ctx, schematic.ToDOT(l, schematicOptions(opts)))
		} else {
			svg = blueprint.RenderSVG(l, blueprintOptions(opts)...)
		}
		return svg, err
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = drawSVG()
		case FormatPNG:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPNG(data, opts.Scale)
			}
		case FormatPDF:
			if data, err = drawSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatJSON:
			data, err = json.MarshalIndent(l, "", "  ")
		case FormatDOT:
			data = []byte(schematic.ToDOT(l, schematicOptions(opts)))
		case FormatXLSX:
			data, err = report.Workbook(report.Floor{Layout: l, Live: opts.Live})
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// blueprintOptions builds SVG rendering options.
func blueprintOptions(opts Options) []blueprint.SVGOption {
	var svgOpts []blueprint.SVGOption

	if s, ok := blueprint.ByName(opts.Style); ok {
		svgOpts = append(svgOpts, blueprint.WithStyle(s))
	}
	if opts.Grid {
		svgOpts = append(svgOpts, blueprint.WithGrid())
	}
	if opts.Dimensions {
		svgOpts = append(svgOpts, blueprint.WithDimensions())
	}
	if f := opts.Filter(); f.Active() {
		svgOpts = append(svgOpts, blueprint.WithFilter(f))
	}
	if opts.Selected != "" {
		svgOpts = append(svgOpts, blueprint.WithSelected(opts.Selected))
	}
	return svgOpts
}

func schematicOptions(opts Options) schematic.Options {
	return schematic.Options{
		Detailed: opts.Dimensions,
		Filter:   opts.Filter(),
		Selected: opts.Selected,
	}
}
