package floor

import "strings"

// Ground and second floor.
const (
	annexStartX, annexStartY   = 50.0, 50.0
	annexOfficeW, annexOfficeH = 120.0, 80.0
	annexStairsW, annexStairsH = 60.0, 60.0
	annexRoomW, annexRoomH     = 80.0, 100.0
	annexCRW, annexCRH         = 70.0, 50.0
	annexGap                   = 15.0
	annexHallwayH              = 50.0
)

// Third and fourth floor use a looser grid.
const (
	upperGap               = 20.0
	upperStairsW           = 60.0
	upperStairsH           = 80.0
	speechLabW, speechLabH = 120.0, 100.0
	comLabW                = speechLabW + upperStairsW + upperGap
	comLabH                = 120.0
	upperHallwayH          = 40.0

	fourthOfficeW, fourthOfficeH = 120.0, 100.0
	room401W, room401H           = fourthOfficeW, 2 * fourthOfficeH
	room402W, room402H           = 2 * room401W, room401H / 2
	fourthBottomMargin           = 40.0
)

func registerAnnex(r *Registry) {
	r.Register(Annex, GroundFloor, annexGroundFloor)
	r.Register(Annex, SecondFloor, annexSecondFloor)
	r.Register(Annex, ThirdFloor, annexThirdFloor)
	r.Register(Annex, FourthFloor, annexFourthFloor)
}

func annexGroundFloor() Layout {
	top := NewRow(annexStartX, annexStartY, annexGap)
	rooms := top.Place(
		spec("GUIDANCE", "GUIDANCE", "Guidance Office", annexOfficeW, annexOfficeH).requests(StatusInProgress, 1),
		stairs("STAIRS", annexStairsW, annexStairsH),
	)
	clinic := Rect{X: annexStartX, Y: annexStartY + annexOfficeH + annexGap, Width: annexOfficeW, Height: annexOfficeH}
	rooms = append(rooms, spec("CLINIC", "CLINIC", "Clinic", annexOfficeW, annexOfficeH).requests(StatusInProgress, 1).at(clinic))

	wing := top.Place(
		numbered("101", annexRoomW, annexRoomH).requests(StatusPending, 1),
		numbered("102", annexRoomW, annexRoomH).requests(StatusPending, 1),
		numbered("103", annexRoomW, annexRoomH).requests(StatusCompleted, 1),
		numbered("104", annexRoomW, annexRoomH),
		numbered("105", annexRoomW, annexRoomH),
	)
	rooms = append(rooms, wing...)

	crF, crM := StackCentered(top.X, annexStartY, annexRoomH, annexCRW, annexCRH, annexGap)
	rooms = append(rooms,
		femaleCR("CR_FEMALE_GF", annexCRW, annexCRH).requests(StatusInProgress, 1).at(crF),
		maleCR("CR_MALE_GF", annexCRW, annexCRH).requests(StatusPending, 1).at(crM),
	)

	hall := Hallway(annexStartY+annexRoomH+annexGap, annexHallwayH, wing[0].Rect, crF)
	rooms = append(rooms, hallway("HALLWAY_GF", "Hallway").at(hall))

	property := Rect{X: hall.X, Y: hall.Bottom() + annexGap, Width: annexOfficeW, Height: annexOfficeH}
	rooms = append(rooms, spec("PROPERTY", "PROPERTY", "Property Office", annexOfficeW, annexOfficeH).requests(StatusPending, 2).at(property))

	// The lobby spans the three offices beneath it.
	officesW := 3*annexOfficeW + 2*annexGap
	lobby := Rect{X: annexStartX, Y: property.Bottom() + 2*annexGap, Width: officesW, Height: annexOfficeH}
	rooms = append(rooms, spec("LOBBY", "LOBBY", "Lobby", officesW, annexOfficeH).at(lobby))

	offices := NewRow(annexStartX, lobby.Bottom()+annexGap, annexGap)
	rooms = append(rooms, offices.Place(
		office("REGISTRATION", "Registration Office"),
		office("PRESIDENTS_OFFICE", "President's Office").requests(StatusCompleted, 1),
		office("FINANCE", "Finance Office").requests(StatusPending, 1),
	)...)

	return Layout{
		Rooms:        rooms,
		CanvasWidth:  max(officesW, max(crF.Right(), property.Right())) + 2*annexStartX,
		CanvasHeight: offices.Y + annexOfficeH + annexStartY,
	}
}

func annexSecondFloor() Layout {
	top := NewRow(annexStartX, annexStartY, annexGap)
	rooms := top.Place(
		numbered("219", annexOfficeW, annexOfficeH).requests(StatusPending, 1),
		stairs("STAIRS_2F", annexStairsW, annexStairsH),
	)
	wing := top.Place(
		numbered("201", annexRoomW, annexRoomH).requests(StatusPending, 1),
		numbered("202", annexRoomW, annexRoomH).requests(StatusPending, 1),
		numbered("203", annexRoomW, annexRoomH).requests(StatusCompleted, 1),
		numbered("204", annexRoomW, annexRoomH).requests(StatusPending, 1),
		numbered("205", annexRoomW, annexRoomH),
		numbered("206", annexRoomW, annexRoomH).requests(StatusInProgress, 2),
	)
	rooms = append(rooms, wing...)

	crF, crM := StackCentered(top.X, annexStartY, annexRoomH, annexCRW, annexCRH, annexGap)
	rooms = append(rooms,
		femaleCR("CR_FEMALE_2F", annexCRW, annexCRH).requests(StatusInProgress, 1).at(crF),
		maleCR("CR_MALE_2F", annexCRW, annexCRH).requests(StatusPending, 1).at(crM),
	)

	hall := Hallway(annexStartY+annexRoomH+annexGap, annexHallwayH, wing[0].Rect, crF)
	rooms = append(rooms, hallway("HALLWAY_2F", "Hallway").at(hall))

	// South rooms count down from the hallway's west end.
	south := NewRow(hall.X, hall.Bottom()+annexGap, annexGap)
	rooms = append(rooms, south.Place(
		numbered("213", annexRoomW, annexRoomH).requests(StatusPending, 1),
		numbered("212", annexRoomW, annexRoomH),
		numbered("211", annexRoomW, annexRoomH).requests(StatusCompleted, 1),
		numbered("210", annexRoomW, annexRoomH),
		numbered("209", annexRoomW, annexRoomH).requests(StatusInProgress, 1),
		numbered("208", annexRoomW, annexRoomH),
		numbered("207", annexRoomW, annexRoomH).requests(StatusCompleted, 1),
	)...)

	// The AVR room fills the space under room 219 and the stairs.
	avrW := annexOfficeW + annexStairsW + annexGap
	avr := Rect{X: annexStartX, Y: south.Y, Width: avrW, Height: annexRoomH}
	rooms = append(rooms, spec("AVR_ROOM", "AVR", "AVR Room", avrW, annexRoomH).requests(StatusCompleted, 1).at(avr))

	return Layout{
		Rooms:        rooms,
		CanvasWidth:  max(avrW+annexGap, max(crF.Right(), south.X)) + 2*annexStartX,
		CanvasHeight: south.Y + annexRoomH + annexStartY,
	}
}

func annexThirdFloor() Layout {
	top := NewRow(annexStartX, annexStartY, upperGap)
	rooms := top.Place(
		spec("SPEECH_LAB", "SPEECH LAB", "Speech Laboratory", speechLabW, speechLabH).requests(StatusInProgress, 3),
		stairs("STAIRS_3F", upperStairsW, upperStairsH),
	)
	labs := top.Place(
		comLab("3"),
		comLab("5").requests(StatusInProgress, 1),
	)
	rooms = append(rooms, labs...)

	hall := Hallway(annexStartY+comLabH+upperGap, upperHallwayH, labs[0].Rect, labs[1].Rect)
	rooms = append(rooms, hallway("HALLWAY_3F", "Hallway").at(hall))

	south := NewRow(annexStartX, hall.Bottom()+upperGap, upperGap)
	rooms = append(rooms, south.Place(
		comLab("1").requests(StatusPending, 1),
		comLab("2").requests(StatusCompleted, 2),
		comLab("4").requests(StatusPending, 1),
	)...)

	return Layout{
		Rooms:        rooms,
		CanvasWidth:  max(annexStartX+2*comLabW+upperGap, labs[1].Right()) + annexStartX,
		CanvasHeight: south.Y + comLabH + annexStartY,
	}
}

func annexFourthFloor() Layout {
	office := Rect{X: annexStartX, Y: annexStartY, Width: fourthOfficeW, Height: fourthOfficeH}
	stair := Rect{
		X:      office.Right() + upperGap,
		Y:      CenterIn(annexStartY, fourthOfficeH, upperStairsH),
		Width:  upperStairsW,
		Height: upperStairsH,
	}
	r401 := Rect{X: annexStartX, Y: office.Bottom() + upperGap, Width: room401W, Height: room401H}
	// Room 402 shares its bottom edge with 401.
	r402 := Rect{X: r401.Right() + upperGap, Y: r401.Bottom() - room402H, Width: room402W, Height: room402H}

	rooms := []Room{
		spec("OFFICE_4F", "OFFICE", "Office", fourthOfficeW, fourthOfficeH).at(office),
		stairs("STAIRS_4F", upperStairsW, upperStairsH).at(stair),
		numbered("401", room401W, room401H).requests(StatusPending, 1).at(r401),
		numbered("402", room402W, room402H).requests(StatusInProgress, 1).at(r402),
	}

	topRowW := fourthOfficeW + upperStairsW + upperGap
	bottomRowW := room401W + room402W + upperGap
	return Layout{
		Rooms:        rooms,
		CanvasWidth:  max(topRowW, bottomRowW) + 2*annexStartX,
		CanvasHeight: annexStartY + fourthOfficeH + upperGap + room401H + fourthBottomMargin,
	}
}

// office is an administrative room numbered by the first word of its name.
func office(id, name string) roomSpec {
	number := strings.ToUpper(strings.Fields(name)[0])
	return spec(id, number, name, annexOfficeW, annexOfficeH)
}

func comLab(n string) roomSpec {
	return spec("COMLAB_"+n, "COMLAB "+n, "Computer Lab "+n, comLabW, comLabH)
}
