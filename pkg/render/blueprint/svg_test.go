package blueprint

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

func dfa() floor.Layout { return floor.Generate(floor.DFABuilding, floor.SecondFloor) }

func TestRenderSVGWellFormed(t *testing.T) {
	reg := floor.DefaultRegistry()
	for _, b := range reg.Buildings() {
		for _, f := range b.Floors {
			t.Run(b.Name+"/"+f, func(t *testing.T) {
				svg := RenderSVG(reg.Generate(b.Name, f), WithGrid(), WithDimensions())
				dec := xml.NewDecoder(bytes.NewReader(svg))
				for {
					_, err := dec.Token()
					if errors.Is(err, io.EOF) {
						break
					}
					if err != nil {
						t.Fatalf("invalid XML: %v", err)
					}
				}
			})
		}
	}
}

func TestRenderSVGRooms(t *testing.T) {
	svg := string(RenderSVG(dfa()))

	contains := []string{
		`viewBox="0 0 1015.0 426.0"`,
		`id="room-A4"`,
		`data-status="pending"`,
		`fill="#FFD700"`, // pending dot
		`fill="#FF8C00"`, // in progress dot
		`fill="#4CAF50"`, // completed dot
		`fill="#EF4444"`, // request badge
		`stroke-dasharray="5,3"`,
		`fill="#BFDBFE"`,
		`fill="#E0F2FE"`,
		`class="scale-bar"`,
		`class="legend"`,
		`Pending (4)`,
		`>SSC Office<`,
	}
	for _, want := range contains {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, `class="grid"`) {
		t.Error("grid drawn without WithGrid")
	}
	if strings.Contains(svg, `class="dimension"`) {
		t.Error("dimensions drawn without WithDimensions")
	}
}

func TestRenderSVGScaleBarOnlyWhenRequested(t *testing.T) {
	svg := string(RenderSVG(floor.Generate(floor.Annex, floor.GroundFloor)))
	if strings.Contains(svg, "scale-bar") {
		t.Error("scale bar drawn on a floor without one")
	}
}

func TestRenderSVGStairs(t *testing.T) {
	svg := string(RenderSVG(dfa()))
	// STAIRS_TOP is 80 tall: treads at +10, +30, +50, +70.
	if n := strings.Count(svg, `class="tread"`); n != 4 {
		t.Errorf("treads = %d, want 4", n)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     []SVGOption
		contains []string
		excludes []string
	}{
		{
			name:     "grid",
			opts:     []SVGOption{WithGrid()},
			contains: []string{`class="grid"`, `stroke-dasharray="5,5"`},
		},
		{
			name:     "dimensions",
			opts:     []SVGOption{WithDimensions()},
			contains: []string{`>80ft<`, `rotate(-90`},
		},
		{
			name:     "selected",
			opts:     []SVGOption{WithSelected("A6")},
			contains: []string{`class="room selected"`, `stroke="#3B82F6" stroke-width="3.0"`},
		},
		{
			name:     "filter",
			opts:     []SVGOption{WithFilter(floor.Filter{Status: floor.StatusCompleted})},
			contains: []string{`id="room-A6" class="room dimmed" data-status="no_request" opacity="0.25"`},
			excludes: []string{`id="room-A12" class="room dimmed"`},
		},
		{
			name:     "print",
			opts:     []SVGOption{WithStyle(Print{})},
			contains: []string{`fill="white"`},
			excludes: []string{`blueprint-pattern`},
		},
		{
			name:     "no legend",
			opts:     []SVGOption{WithoutLegend()},
			contains: []string{`viewBox="0 0 1015.0 390.0"`},
			excludes: []string{`class="legend"`},
		},
		{
			name:     "zoom",
			opts:     []SVGOption{WithZoom(2), WithoutLegend()},
			contains: []string{`width="2030" height="780"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := string(RenderSVG(dfa(), tt.opts...))
			for _, want := range tt.contains {
				if !strings.Contains(svg, want) {
					t.Errorf("SVG missing %q", want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(svg, bad) {
					t.Errorf("SVG contains %q", bad)
				}
			}
		})
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	l := floor.Layout{
		CanvasWidth: 200, CanvasHeight: 200,
		Rooms: []floor.Room{{
			ID: "R&D", Number: "<1>", Name: "R&D Lab",
			Rect:   floor.Rect{X: 50, Y: 50, Width: 80, Height: 80},
			Status: floor.StatusNoRequest,
		}},
	}
	svg := string(RenderSVG(l))
	for _, want := range []string{`id="room-R&amp;D"`, `&lt;1&gt;`, `R&amp;D Lab`} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestDecorations(t *testing.T) {
	l := floor.Layout{
		CanvasWidth: 300, CanvasHeight: 100,
		Rooms: []floor.Room{
			{ID: "T", Number: "2ND FLOOR", Kind: floor.KindTitle, Rect: floor.Rect{X: 0, Y: 0, Width: 300, Height: 20}},
			{ID: "S", Number: "1:100", Kind: floor.KindScale, Rect: floor.Rect{X: 0, Y: 80, Width: 100, Height: 20}},
		},
	}
	svg := string(RenderSVG(l, WithFilter(floor.Filter{Search: "nothing"})))
	if !strings.Contains(svg, `class="title"`) || !strings.Contains(svg, `font-weight="bold"`) {
		t.Error("title not drawn as bold label")
	}
	if !strings.Contains(svg, `class="scale"`) {
		t.Error("scale label missing")
	}
	if strings.Contains(svg, "room-T") || strings.Contains(svg, "dimmed") {
		t.Error("decorations drawn as rooms")
	}
}
