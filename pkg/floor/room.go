package floor

import (
	"fmt"
	"strings"
)

// Status is the maintenance state of a room.
type Status string

const (
	StatusNoRequest  Status = "no_request"
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNoRequest, StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus returns the status named by s. Matching ignores case and
// surrounding whitespace and accepts "in progress" for in_progress.
func ParseStatus(s string) (Status, bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for _, st := range Statuses {
		if string(st) == norm {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Label returns a human-readable label.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "No Request"
	}
}

// Kind tags rooms that are not regular rooms.
type Kind string

const (
	KindRoom     Kind = ""
	KindStairs   Kind = "stairs"
	KindHallway  Kind = "hallway"
	KindRestroom Kind = "cr"
	KindTitle    Kind = "title"
	KindScale    Kind = "scale"
)

// Decorative reports whether the kind is a label drawn on the map rather than
// a physical space.
func (k Kind) Decorative() bool {
	return k == KindTitle || k == KindScale
}

// Rect is an axis-aligned rectangle in floor coordinates.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

func (r Rect) Right() float64   { return r.X + r.Width }
func (r Rect) Bottom() float64  { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Intersects reports whether r and o share interior area. Rectangles that
// only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Room is a single space on a floor plan.
type Room struct {
	ID           string `json:"id" bson:"id"`
	Number       string `json:"room_number" bson:"room_number"`
	Name         string `json:"room_name" bson:"room_name"`
	Rect         `bson:",inline"`
	Status       Status `json:"status" bson:"status"`
	RequestCount int    `json:"request_count" bson:"request_count"`
	Kind         Kind   `json:"special,omitempty" bson:"special,omitempty"`
}

// Selectable reports whether the room can be picked on the map.
func (r Room) Selectable() bool {
	return r.ID != "" && !r.Kind.Decorative()
}

// HasRequests reports whether any request is attached to the room.
func (r Room) HasRequests() bool { return r.RequestCount > 0 }

func (r Room) String() string {
	return fmt.Sprintf("%s (%s) %s/%d", r.ID, r.Number, r.Status, r.RequestCount)
}

// Layout is the generated plan of one floor.
type Layout struct {
	Building     string  `json:"building,omitempty" bson:"building,omitempty"`
	Floor        string  `json:"floor,omitempty" bson:"floor,omitempty"`
	Rooms        []Room  `json:"rooms" bson:"rooms"`
	CanvasWidth  float64 `json:"canvas_width" bson:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height" bson:"canvas_height"`
	ScaleBar     bool    `json:"scale_bar,omitempty" bson:"scale_bar,omitempty"`
}

// Room returns the room with the given id.
func (l Layout) Room(id string) (Room, bool) {
	if i := l.Index(id); i >= 0 {
		return l.Rooms[i], true
	}
	return Room{}, false
}

// Index returns the position of the room with the given id, or -1.
func (l Layout) Index(id string) int {
	for i, r := range l.Rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy whose room slice can be modified freely.
func (l Layout) Clone() Layout {
	out := l
	out.Rooms = make([]Room, len(l.Rooms))
	copy(out.Rooms, l.Rooms)
	return out
}

// Empty reports whether the layout has no rooms.
func (l Layout) Empty() bool { return len(l.Rooms) == 0 }
