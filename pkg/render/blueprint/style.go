package blueprint

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

// Style controls the page and room appearance.
type Style interface {
	// Name is the identifier used on the command line and in cache keys.
	Name() string
	// RenderDefs writes SVG <defs> content (patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderBackground writes the page behind the rooms.
	RenderBackground(buf *bytes.Buffer, w, h float64)
	// RenderRoom writes the shape of a room.
	RenderRoom(buf *bytes.Buffer, t Tile)
	// RenderText writes the labels and markers of a room.
	RenderText(buf *bytes.Buffer, t Tile)
}

// Tile is a room with its render state.
type Tile struct {
	floor.Room
	Selected   bool
	Dimmed     bool
	Dimensions bool
}

// Style names.
const (
	StyleBlueprint = "blueprint"
	StylePrint     = "print"
)

// ByName returns the style called name.
func ByName(name string) (Style, bool) {
	switch name {
	case StyleBlueprint, "":
		return Blueprint{}, true
	case StylePrint:
		return Print{}, true
	}
	return nil, false
}

// =============================================================================
// Blueprint
// =============================================================================

// Blueprint draws rooms on light paper laid over a dark drafting table.
type Blueprint struct{}

func (Blueprint) Name() string { return StyleBlueprint }

func (Blueprint) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <pattern id="blueprint-pattern" width="200" height="200" patternUnits="userSpaceOnUse">
      <rect width="200" height="200" fill="%s"/>
      <line x1="0" y1="200" x2="200" y2="0" stroke="%s" stroke-width="0.3" stroke-opacity="0.2"/>
      <line x1="0" y1="0" x2="200" y2="200" stroke="%s" stroke-width="0.3" stroke-opacity="0.2"/>
    </pattern>
  </defs>
`, colorPaper, colorRestroom, colorRestroom)
}

func (Blueprint) RenderBackground(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect class="background" x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", w, h, colorBackground)
	if w > 40 && h > 40 {
		fmt.Fprintf(buf, `  <rect class="paper" x="20" y="20" width="%.2f" height="%.2f" fill="url(#blueprint-pattern)" stroke="%s" stroke-width="1" stroke-opacity="0.5"/>`+"\n",
			w-40, h-40, colorTread)
	}
}

func (Blueprint) RenderRoom(buf *bytes.Buffer, t Tile) { renderRoom(buf, t, colorLine) }

func (Blueprint) RenderText(buf *bytes.Buffer, t Tile) { renderText(buf, t, colorLabel) }

// =============================================================================
// Print
// =============================================================================

// Print draws on a plain white page with dark outlines.
type Print struct{}

func (Print) Name() string { return StylePrint }

func (Print) RenderDefs(*bytes.Buffer) {}

func (Print) RenderBackground(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <rect class="background" x="0" y="0" width="%.2f" height="%.2f" fill="white"/>`+"\n", w, h)
}

func (Print) RenderRoom(buf *bytes.Buffer, t Tile) { renderRoom(buf, t, "#333") }

func (Print) RenderText(buf *bytes.Buffer, t Tile) { renderText(buf, t, "#111827") }

// =============================================================================
// Shared drawing
// =============================================================================

func renderRoom(buf *bytes.Buffer, t Tile, line string) {
	stroke, width := line, 1.5
	switch {
	case t.Selected:
		stroke, width = colorSelected, 3
	case t.HasRequests():
		stroke = StatusColor(t.Status)
	}
	dash := ""
	if t.Kind == floor.KindHallway {
		dash = ` stroke-dasharray="5,3"`
	}
	fmt.Fprintf(buf, `    <rect class="room-shape" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" ry="2" fill="%s" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		t.X, t.Y, t.Width, t.Height, FillColor(t.Kind), stroke, width, dash)

	if t.Kind == floor.KindStairs {
		for dy := 10.0; dy <= 90 && dy < t.Height; dy += 20 {
			fmt.Fprintf(buf, `    <line class="tread" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
				t.X+10, t.Y+dy, t.Right()-10, t.Y+dy, colorTread)
		}
	}
}

func renderText(buf *bytes.Buffer, t Tile, label string) {
	cx := t.CenterX()
	fmt.Fprintf(buf, `    <text class="room-number" x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-size="%.2f" font-weight="600">%s</text>`+"\n",
		cx, t.CenterY(), label, NumberFontSize(t.Width), escapeXML(t.Number))

	if t.Kind != floor.KindHallway {
		fmt.Fprintf(buf, `    <text class="room-name" x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-size="10">%s</text>`+"\n",
			cx, t.Bottom()-8, colorText, escapeXML(TruncateName(t.Name)))
	}

	if t.Status != floor.StatusNoRequest && t.Status.Valid() {
		fmt.Fprintf(buf, `    <circle class="status-dot" cx="%.2f" cy="%.2f" r="6" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
			t.Right()-12, t.Y+12, StatusColor(t.Status))
	}

	if t.HasRequests() {
		fmt.Fprintf(buf, `    <circle class="badge" cx="%.2f" cy="%.2f" r="8" fill="%s" stroke="#FFFFFF" stroke-width="1"/>`+"\n",
			t.X+12, t.Y+12, colorBadge)
		fmt.Fprintf(buf, `    <text class="badge-count" x="%.2f" y="%.2f" text-anchor="middle" fill="white" font-size="8" font-weight="bold">%d</text>`+"\n",
			t.X+12, t.Y+15, t.RequestCount)
	}

	if t.Dimensions && t.Kind == floor.KindRoom {
		fmt.Fprintf(buf, `    <text class="dimension" x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-size="8">%s</text>`+"\n",
			cx, t.Y-5, colorMuted, Feet(t.Width))
		lx, ly := t.X-15, t.CenterY()
		fmt.Fprintf(buf, `    <text class="dimension" x="%.2f" y="%.2f" text-anchor="middle" fill="%s" font-size="8" transform="rotate(-90, %.2f, %.2f)">%s</text>`+"\n",
			lx, ly, colorMuted, lx, ly, Feet(t.Height))
	}
}
