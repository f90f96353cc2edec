package floor

const (
	dfaStartX, dfaStartY   = 50.0, 50.0
	dfaRoomW, dfaRoomH     = 80.0, 80.0
	dfaStairsW             = 220.0
	dfaHallwayH            = 100.0
	dfaOfficeW, dfaOfficeH = 100.0, 80.0
	dfaDLLW, dfaDLLH       = 90.0, 80.0
	dfaGap                 = 15.0
)

func registerDFABuilding(r *Registry) {
	r.Register(DFABuilding, SecondFloor, dfaSecondFloor)
}

// dfaSecondFloor is two rows of classrooms on either side of a wide corridor.
// Even-numbered rooms face north, odd-numbered rooms face south.
func dfaSecondFloor() Layout {
	north := NewRow(dfaStartX, dfaStartY, dfaGap)
	rooms := north.Place(
		stairs("STAIRS_TOP", dfaStairsW, dfaRoomH),
		numbered("A12", dfaRoomW, dfaRoomH).requests(StatusCompleted, 1),
		numbered("A10", dfaRoomW, dfaRoomH),
		numbered("A8", dfaRoomW, dfaRoomH),
		numbered("A6", dfaRoomW, dfaRoomH),
		numbered("A4", dfaRoomW, dfaRoomH).requests(StatusPending, 1),
		numbered("A2", dfaRoomW, dfaRoomH).requests(StatusCompleted, 1),
		spec("DLL_MUSIC_ARTS", "DLL", "DLL Music & Arts", dfaDLLW, dfaDLLH).requests(StatusCompleted, 1),
	)

	hall := Hallway(dfaStartY+dfaRoomH+dfaGap, dfaHallwayH, rects(rooms)...)
	rooms = append(rooms, hallway("HALLWAY", "Main Hallway").at(hall))

	south := NewRow(dfaStartX, hall.Bottom()+dfaGap, dfaGap)
	rooms = append(rooms, south.Place(
		spec("SSC_OFFICE", "SSC", "SSC Office", dfaOfficeW, dfaOfficeH).requests(StatusPending, 2),
		femaleCR("CR_FEMALE", dfaOfficeW, dfaOfficeH).requests(StatusInProgress, 1).as(KindRestroom),
		maleCR("CR_MALE", dfaOfficeW, dfaOfficeH).requests(StatusPending, 1).as(KindRestroom),
		numbered("A11", dfaRoomW, dfaRoomH),
		numbered("A9", dfaRoomW, dfaRoomH).requests(StatusPending, 1),
		numbered("A7", dfaRoomW, dfaRoomH).requests(StatusInProgress, 2),
		numbered("A5", dfaRoomW, dfaRoomH),
		numbered("A3", dfaRoomW, dfaRoomH),
		numbered("A1", dfaRoomW, dfaRoomH),
	)...)

	return Layout{
		Rooms:        rooms,
		CanvasWidth:  south.X + dfaStartX,
		CanvasHeight: south.Y + dfaRoomH + dfaStartY,
		ScaleBar:     true,
	}
}

func rects(rooms []Room) []Rect {
	out := make([]Rect, len(rooms))
	for i, r := range rooms {
		out[i] = r.Rect
	}
	return out
}
