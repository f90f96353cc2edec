package schematic

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/render"
	"github.com/matzehuels/facilitymap/pkg/render/blueprint"
)

// DoorReach is the widest gap between a room and a hallway that still counts
// as a doorway.
const DoorReach = 20.0

// Options configures the schematic.
type Options struct {
	// Detailed adds the room name and request count to each label.
	Detailed bool
	// Filter dims the rooms it rejects.
	Filter floor.Filter
	// Selected outlines one room.
	Selected string
}

// Link connects a room to a hallway it adjoins.
type Link struct {
	Room, Hallway string
}

// Links returns the room-to-hallway connections of a layout, in room order.
func Links(l floor.Layout) []Link {
	var halls []floor.Room
	for _, r := range l.Rooms {
		if r.Kind == floor.KindHallway {
			halls = append(halls, r)
		}
	}
	var links []Link
	for _, r := range l.Rooms {
		if r.Kind == floor.KindHallway || r.Kind.Decorative() {
			continue
		}
		for _, h := range halls {
			if adjoins(r.Rect, h.Rect, DoorReach) {
				links = append(links, Link{Room: r.ID, Hallway: h.ID})
			}
		}
	}
	return links
}

// adjoins reports whether a and b overlap along one axis and are at most
// reach apart along the other.
func adjoins(a, b floor.Rect, reach float64) bool {
	overlapX := a.X < b.Right() && b.X < a.Right()
	overlapY := a.Y < b.Bottom() && b.Y < a.Bottom()
	gapY := max(b.Y-a.Bottom(), a.Y-b.Bottom())
	gapX := max(b.X-a.Right(), a.X-b.Right())
	return (overlapX && gapY >= 0 && gapY <= reach) || (overlapY && gapX >= 0 && gapX <= reach)
}

// ToDOT converts a layout to a Graphviz graph with pinned node positions.
// Graphviz puts the origin bottom-left, so y is flipped against the canvas.
func ToDOT(l floor.Layout, opts Options) string {
	var buf bytes.Buffer
	name := strings.TrimSpace(l.Building + " " + l.Floor)
	if name == "" {
		name = "floor"
	}
	fmt.Fprintf(&buf, "graph %q {\n", name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(l.CanvasWidth), num(l.CanvasHeight))
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [color=\"#93C5FD\"];\n")
	buf.WriteString("\n")

	for _, r := range l.Rooms {
		if r.Kind.Decorative() {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", r.ID, strings.Join(nodeAttrs(r, l.CanvasHeight, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range Links(l) {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Room, e.Hallway)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(r floor.Room, canvasHeight float64, opts Options) []string {
	label := r.Number
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s", r.Number, blueprint.TruncateName(r.Name))
		if r.RequestCount > 0 {
			label += fmt.Sprintf("\n%d open", r.RequestCount)
		}
	}
	fill := blueprint.FillColor(r.Kind)
	if r.Status != floor.StatusNoRequest && r.Status.Valid() {
		fill = blueprint.StatusColor(r.Status)
	}
	if opts.Filter.Active() && !opts.Filter.Match(r) {
		fill += "40"
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", num(r.CenterX()), num(canvasHeight-r.CenterY())),
		fmt.Sprintf("width=%s", num(r.Width/72)),
		fmt.Sprintf("height=%s", num(r.Height/72)),
		fmt.Sprintf("fillcolor=%q", fill),
	}
	switch {
	case r.ID == opts.Selected:
		attrs = append(attrs, `color="#3B82F6"`, "penwidth=3")
	case r.Kind == floor.KindHallway:
		attrs = append(attrs, `style="rounded,filled,dashed"`)
	}
	return attrs
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz <svg> header, which sizes in pt,
// with a plain pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
