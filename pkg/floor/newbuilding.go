package floor

// All three NEW BUILDING floors share one footprint: an entry stair, the male
// restroom and the west room along the top, a corridor under them, and an
// east wing stacked down the right side with the female restroom and the exit
// stair. A short side corridor runs from the top corridor down to the exit.
const (
	nbStartX, nbStartY             = 40.0, 40.0
	nbRoomW, nbRoomH               = 140.0, 100.0
	nbHallwayH                     = 60.0
	nbEntryStairsW, nbEntryStairsH = 80.0, 120.0
	nbStairsW, nbStairsH           = nbRoomW, 80.0
	nbCRW, nbCRH                   = 70.0, 60.0
	nbGap                          = 20.0

	// The female restroom sits this far right of the east wing's left edge.
	nbCROffset = 60.0
	// The side corridor starts this far left of the top corridor's east end.
	nbSideHallwayInset = 80.0
)

func registerNewBuilding(r *Registry) {
	r.Register(NewBuilding, GroundFloor, newBuildingPlan("", "_GF",
		numbered("NB1", nbRoomW, nbRoomH).requests(StatusPending, 2),
		numbered("NB2", nbRoomW, nbRoomH),
		numbered("NB3", nbRoomW, nbRoomH).requests(StatusCompleted, 1),
	))
	r.Register(NewBuilding, SecondFloor, newBuildingPlan("_2F", "_2F",
		numbered("NB4", nbRoomW, nbRoomH).requests(StatusPending, 1),
		numbered("NB5", nbRoomW, nbRoomH).requests(StatusInProgress, 2),
		numbered("NB6", nbRoomW, nbRoomH),
	))
	r.Register(NewBuilding, ThirdFloor, newBuildingPlan("_3F", "_3F",
		numbered("NB7", nbRoomW, nbRoomH).requests(StatusCompleted, 1),
		numbered("NB8", nbRoomW, nbRoomH).requests(StatusPending, 1),
		numbered("NB9", nbRoomW, nbRoomH).requests(StatusInProgress, 1),
	))
}

// newBuildingPlan lays out one floor. suffix is appended to stair and
// corridor ids (empty on the ground floor), crSuffix to restroom ids.
func newBuildingPlan(suffix, crSuffix string, west, east, south roomSpec) Plan {
	return func() Layout {
		top := NewRow(nbStartX, nbStartY, nbGap)
		entry := top.Next(nbEntryStairsW, nbEntryStairsH)
		crMale := top.Next(nbCRW, nbCRH)
		westRect := top.Next(nbRoomW, nbRoomH)
		eastRect := top.Next(nbRoomW, nbRoomH)

		topHall := Hallway(nbStartY+nbEntryStairsH+nbGap/2, nbHallwayH, entry, westRect)

		wing := NewColumn(eastRect.Bottom()+nbGap, nbGap)
		southRect := wing.Next(eastRect.X, nbRoomW, nbRoomH)
		crFemale := wing.Next(eastRect.X+nbCROffset, nbCRW, nbCRH)
		exit := wing.Next(eastRect.X, nbStairsW, nbStairsH)

		sideHall := Rect{
			X:      topHall.Right() - nbSideHallwayInset,
			Y:      crFemale.Y,
			Width:  nbCRW,
			Height: exit.Bottom() - crFemale.Y,
		}

		rooms := []Room{
			stairs("STAIRS_LEFT"+suffix, nbEntryStairsW, nbEntryStairsH).at(entry),
			maleCR("CR_MALE"+crSuffix, nbCRW, nbCRH).at(crMale),
			west.at(westRect),
			hallway("HALLWAY_TOP"+suffix, "Hallway").at(topHall),
			east.at(eastRect),
			south.at(southRect),
			femaleCR("CR_FEMALE"+crSuffix, nbCRW, nbCRH).at(crFemale),
			stairs("STAIRS_RIGHT"+suffix, nbStairsW, nbStairsH).at(exit),
			hallway("HALLWAY_LEFT_SIDE"+suffix, "Hallway").at(sideHall),
		}

		return Layout{
			Rooms:        rooms,
			CanvasWidth:  max(eastRect.X+nbRoomW+2*nbGap, crFemale.Right()+nbGap),
			CanvasHeight: max(topHall.Bottom()+nbGap, crFemale.Bottom()+nbGap+nbStairsH+2*nbGap),
		}
	}
}
