package blueprint

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/render"
)

const (
	gridMinor    = 20.0
	gridMajor    = 100.0
	legendHeight = 36.0
	dimOpacity   = 0.25
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      Style
	grid       bool
	dimensions bool
	legend     bool
	filter     floor.Filter
	selected   string
	zoom       float64
}

func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithGrid() SVGOption         { return func(r *svgRenderer) { r.grid = true } }
func WithDimensions() SVGOption   { return func(r *svgRenderer) { r.dimensions = true } }
func WithoutLegend() SVGOption    { return func(r *svgRenderer) { r.legend = false } }

// WithFilter dims the rooms that f rejects.
func WithFilter(f floor.Filter) SVGOption { return func(r *svgRenderer) { r.filter = f } }

// WithSelected outlines the room with the given id.
func WithSelected(id string) SVGOption { return func(r *svgRenderer) { r.selected = id } }

// WithZoom scales the width and height attributes; the viewBox is unchanged.
func WithZoom(z float64) SVGOption {
	return func(r *svgRenderer) {
		if z > 0 {
			r.zoom = z
		}
	}
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: Blueprint{}, legend: true, zoom: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the layout.
func RenderSVG(l floor.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	w, h := l.CanvasWidth, l.CanvasHeight
	total := h
	if r.legend {
		total += legendHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, total, w*r.zoom, total*r.zoom)

	r.style.RenderDefs(&buf)
	r.style.RenderBackground(&buf, w, total)
	if r.grid {
		renderGrid(&buf, w, h)
	}

	for _, room := range l.Rooms {
		if room.Kind.Decorative() {
			renderDecoration(&buf, room)
			continue
		}
		r.renderTile(&buf, Tile{
			Room:       room,
			Selected:   room.ID == r.selected,
			Dimmed:     r.filter.Active() && !r.filter.Match(room),
			Dimensions: r.dimensions,
		})
	}

	if l.ScaleBar {
		renderScaleBar(&buf, w, h)
	}
	if r.legend {
		renderLegend(&buf, w, h, reconcile.Compute(l.Rooms))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderPNG draws the layout and converts it with rsvg-convert.
func RenderPNG(l floor.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(RenderSVG(l, opts...), scale)
}

// RenderPDF draws the layout and converts it with rsvg-convert.
func RenderPDF(l floor.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(l, opts...))
}

func (r *svgRenderer) renderTile(buf *bytes.Buffer, t Tile) {
	class := "room"
	if t.Selected {
		class += " selected"
	}
	opacity := ""
	if t.Dimmed {
		class += " dimmed"
		opacity = fmt.Sprintf(` opacity="%.2f"`, dimOpacity)
	}
	fmt.Fprintf(buf, `  <g id="room-%s" class="%s" data-status="%s"%s>`+"\n", escapeXML(t.ID), class, t.Status, opacity)
	r.style.RenderRoom(buf, t)
	r.style.RenderText(buf, t)
	buf.WriteString("  </g>\n")
}

func renderDecoration(buf *bytes.Buffer, room floor.Room) {
	fill, size, weight := colorText, 12, "normal"
	if room.Kind == floor.KindTitle {
		fill, size, weight = colorLabel, 14, "bold"
	}
	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-size="%d" font-weight="%s" font-family="monospace">%s</text>`+"\n",
		room.Kind, room.CenterX(), room.CenterY(), fill, size, weight, escapeXML(room.Number))
}

func renderGrid(buf *bytes.Buffer, w, h float64) {
	buf.WriteString(`  <g class="grid">` + "\n")
	for x := 0.0; x <= w; x += gridMinor {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-opacity="0.1"/>`+"\n", x, x, h, colorGrid)
	}
	for y := 0.0; y <= h; y += gridMinor {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-opacity="0.1"/>`+"\n", y, w, y, colorGrid)
	}
	for x := 0.0; x <= w; x += gridMajor {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="0" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-opacity="0.2" stroke-dasharray="5,5"/>`+"\n", x, x, h, colorGrid)
	}
	for y := 0.0; y <= h; y += gridMajor {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-opacity="0.2" stroke-dasharray="5,5"/>`+"\n", y, w, y, colorGrid)
	}
	buf.WriteString("  </g>\n")
}

func renderScaleBar(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <g class="scale-bar" transform="translate(%.2f, %.2f)">
    <line x1="0" y1="0" x2="100" y2="0" stroke="%[3]s" stroke-width="2"/>
    <line x1="0" y1="-5" x2="0" y2="5" stroke="%[3]s" stroke-width="2"/>
    <line x1="100" y1="-5" x2="100" y2="5" stroke="%[3]s" stroke-width="2"/>
  </g>
`, w-150, h-30, colorMuted)
}

func renderLegend(buf *bytes.Buffer, w, h float64, stats reconcile.Stats) {
	x, y := 20.0, h+4
	width := max(w-40, 0)
	fmt.Fprintf(buf, `  <g class="legend">`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" ry="4" fill="%s" fill-opacity="0.95"/>`+"\n",
		x, y, width, legendHeight-8, colorPaper)

	step := width / float64(len(floor.Statuses))
	for i, st := range floor.Statuses {
		ix := x + 14 + float64(i)*step
		cy := y + (legendHeight-8)/2
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="6" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n", ix, cy, StatusColor(st))
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" fill="%s" font-size="11">%s (%d)</text>`+"\n",
			ix+10, cy+4, colorText, st.Label(), stats.Count(st))
	}
	buf.WriteString("  </g>\n")
}
