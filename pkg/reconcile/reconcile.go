package reconcile

import (
	"strings"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

// Criterion is the key on which a record matched a room.
type Criterion int

const (
	ByID Criterion = iota
	ByRoomID
	ByNumber
	ByName
)

func (c Criterion) String() string {
	switch c {
	case ByID:
		return "id"
	case ByRoomID:
		return "room_id"
	case ByNumber:
		return "room_number"
	case ByName:
		return "name"
	default:
		return "unknown"
	}
}

// criteria in precedence order.
var criteria = []struct {
	by    Criterion
	match func(floor.Room, ServerRoom) bool
}{
	{ByID, func(r floor.Room, s ServerRoom) bool {
		v, ok := s.ID.value()
		return ok && v != "" && v == r.ID
	}},
	{ByRoomID, func(r floor.Room, s ServerRoom) bool {
		v, ok := s.RoomID.value()
		return ok && v != "" && v == r.ID
	}},
	{ByNumber, func(r floor.Room, s ServerRoom) bool {
		v, ok := s.RoomNumber.value()
		return ok && v != "" && v == r.Number
	}},
	{ByName, func(r floor.Room, s ServerRoom) bool {
		v, ok := s.name()
		return ok && v != "" && strings.EqualFold(v, r.Name)
	}},
}

// Match pairs a room with the record applied to it.
type Match struct {
	Room   int // index into the layout's rooms
	Record int // index into the record list
	By     Criterion
}

// Assign computes which record each room receives. Rooms are visited in
// layout order and records in list order, one criterion at a time.
func Assign(rooms []floor.Room, records []ServerRoom) []Match {
	roomTaken := make([]bool, len(rooms))
	recordTaken := make([]bool, len(records))
	var matches []Match

	for _, c := range criteria {
		for i, room := range rooms {
			if roomTaken[i] {
				continue
			}
			for j, rec := range records {
				if recordTaken[j] || !c.match(room, rec) {
					continue
				}
				roomTaken[i], recordTaken[j] = true, true
				matches = append(matches, Match{Room: i, Record: j, By: c.by})
				break
			}
		}
	}
	return matches
}

// Reconcile returns a copy of layout with matching records applied. An empty
// record list leaves the layout unchanged.
func Reconcile(layout floor.Layout, records []ServerRoom) floor.Layout {
	out := layout.Clone()
	if len(records) == 0 {
		return out
	}
	for _, m := range Assign(out.Rooms, records) {
		out.Rooms[m.Room] = Apply(out.Rooms[m.Room], records[m.Record])
	}
	return out
}

// Apply overlays the fields present in rec onto room.
func Apply(room floor.Room, rec ServerRoom) floor.Room {
	if v, ok := rec.ID.value(); ok && v != "" {
		room.ID = v
	} else if v, ok := rec.RoomID.value(); ok && v != "" {
		room.ID = v
	}
	if v, ok := rec.RoomNumber.value(); ok {
		room.Number = v
	}
	if v, ok := rec.name(); ok {
		room.Name = v
	}
	if v, ok := str(rec.Status); ok {
		if st, valid := floor.ParseStatus(v); valid {
			room.Status = st
		}
	}
	if n, ok := rec.count(); ok {
		room.RequestCount = n
	}
	return room
}

// MarkPending records a request that the backend did not confirm: the room
// becomes pending and gains one request. Unknown ids leave the layout as is.
func MarkPending(layout floor.Layout, roomID string) floor.Layout {
	out := layout.Clone()
	if i := out.Index(roomID); i >= 0 {
		out.Rooms[i].Status = floor.StatusPending
		out.Rooms[i].RequestCount++
	}
	return out
}
