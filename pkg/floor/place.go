package floor

// Row is a left-to-right placement cursor. Each placed item starts where the
// previous one ended plus Gap.
type Row struct {
	X, Y float64
	Gap  float64
}

// NewRow returns a cursor starting at (x, y).
func NewRow(x, y, gap float64) *Row {
	return &Row{X: x, Y: y, Gap: gap}
}

// Next returns the rectangle for a w×h item at the cursor and advances past it.
func (r *Row) Next(w, h float64) Rect {
	rect := Rect{X: r.X, Y: r.Y, Width: w, Height: h}
	r.X += w + r.Gap
	return rect
}

// Skip moves the cursor right by dx.
func (r *Row) Skip(dx float64) { r.X += dx }

// End is the right edge of the last placed item.
func (r *Row) End() float64 { return r.X - r.Gap }

// Place turns specs into rooms along the row.
func (r *Row) Place(specs ...roomSpec) []Room {
	rooms := make([]Room, 0, len(specs))
	for _, s := range specs {
		rooms = append(rooms, s.at(r.Next(s.w, s.h)))
	}
	return rooms
}

// Column is a top-to-bottom placement cursor. Unlike [Row] the x coordinate
// is chosen per item, since stacked spaces rarely share a left edge.
type Column struct {
	Y   float64
	Gap float64
}

// NewColumn returns a cursor starting at y.
func NewColumn(y, gap float64) *Column {
	return &Column{Y: y, Gap: gap}
}

// Next returns the rectangle for a w×h item at (x, cursor) and advances below it.
func (c *Column) Next(x, w, h float64) Rect {
	rect := Rect{X: x, Y: c.Y, Width: w, Height: h}
	c.Y += h + c.Gap
	return rect
}

// Span returns the horizontal extent covering rects: x is the leftmost left
// edge and width runs to the rightmost right edge.
func Span(rects ...Rect) (x, width float64) {
	if len(rects) == 0 {
		return 0, 0
	}
	left, right := rects[0].X, rects[0].Right()
	for _, r := range rects[1:] {
		left = min(left, r.X)
		right = max(right, r.Right())
	}
	return left, right - left
}

// Hallway returns a corridor at y that spans the rooms it connects.
func Hallway(y, height float64, rects ...Rect) Rect {
	x, w := Span(rects...)
	return Rect{X: x, Y: y, Width: w, Height: height}
}

// StackCentered places two w×h compartments at x, one above the other with
// gap between them, centered vertically against a neighbour that starts at
// top and is neighborHeight tall.
func StackCentered(x, top, neighborHeight, w, h, gap float64) (upper, lower Rect) {
	y := CenterIn(top, neighborHeight, 2*h+gap)
	upper = Rect{X: x, Y: y, Width: w, Height: h}
	lower = Rect{X: x, Y: y + h + gap, Width: w, Height: h}
	return upper, lower
}

// CenterIn returns the y at which an item of height inner is centered inside
// an outer span starting at top.
func CenterIn(top, outer, inner float64) float64 {
	return top + (outer-inner)/2
}

// Extent returns the right-most and bottom-most edges over rooms.
func Extent(rooms []Room) (right, bottom float64) {
	for _, r := range rooms {
		right = max(right, r.Right())
		bottom = max(bottom, r.Bottom())
	}
	return right, bottom
}

// roomSpec is one placement step: everything about a room except where it goes.
type roomSpec struct {
	id, number, name string
	w, h             float64
	status           Status
	count            int
	kind             Kind
}

// spec returns a step for a room with no open requests.
func spec(id, number, name string, w, h float64) roomSpec {
	return roomSpec{id: id, number: number, name: name, w: w, h: h, status: StatusNoRequest}
}

func (s roomSpec) requests(st Status, n int) roomSpec {
	s.status, s.count = st, n
	return s
}

func (s roomSpec) as(k Kind) roomSpec {
	s.kind = k
	return s
}

func (s roomSpec) at(r Rect) Room {
	return Room{
		ID:           s.id,
		Number:       s.number,
		Name:         s.name,
		Rect:         r,
		Status:       s.status,
		RequestCount: s.count,
		Kind:         s.kind,
	}
}

func stairs(id string, w, h float64) roomSpec {
	return spec(id, "STAIRS", "Stairs", w, h).as(KindStairs)
}

func hallway(id, name string) roomSpec {
	return spec(id, "HALL", name, 0, 0).as(KindHallway)
}

// femaleCR and maleCR are plain rooms. Only floors that draw restrooms with
// the cr fill tag them with .as(KindRestroom).
func femaleCR(id string, w, h float64) roomSpec {
	return spec(id, "CR F", "Female CR", w, h)
}

func maleCR(id string, w, h float64) roomSpec {
	return spec(id, "CR M", "Male CR", w, h)
}

// numbered is a regular room whose id and number are both n.
func numbered(n string, w, h float64) roomSpec {
	return spec(n, n, "Room "+n, w, h)
}
