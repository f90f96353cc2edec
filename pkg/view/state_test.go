package view

import (
	"reflect"
	"testing"
	"time"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
)

func initial() State { return New(floor.DefaultRegistry()) }

func TestNew(t *testing.T) {
	s := initial()
	if s.Building != floor.DFABuilding || s.Floor != floor.SecondFloor {
		t.Errorf("default = %s/%s", s.Building, s.Floor)
	}
	if !s.Loading || s.Generation != 1 || s.Zoom != 1 || !s.Grid || s.Dimensions {
		t.Errorf("initial flags = %+v", s)
	}
	if s.Draft.Priority != backend.PriorityMedium {
		t.Errorf("draft priority = %s", s.Draft.Priority)
	}
	if len(s.Layout.Rooms) != 18 {
		t.Errorf("rooms = %d", len(s.Layout.Rooms))
	}
}

func TestSelectBuilding(t *testing.T) {
	s := initial().SelectRoom("A4").OpenModal()
	next := s.SelectBuilding(floor.Annex)

	if next.Floor != floor.GroundFloor {
		t.Errorf("floor = %s, want first floor", next.Floor)
	}
	if next.Generation != s.Generation+1 {
		t.Errorf("generation = %d, want %d", next.Generation, s.Generation+1)
	}
	if next.Selected != "" || next.ModalOpen {
		t.Error("selection survived building switch")
	}
	if !reflect.DeepEqual(next.Layout, floor.Generate(floor.Annex, floor.GroundFloor)) {
		t.Error("layout is not the generated default")
	}
	// The receiver is untouched.
	if s.Building != floor.DFABuilding || s.Selected != "A4" {
		t.Error("reducer mutated its receiver")
	}
}

func TestSelectFloor(t *testing.T) {
	s := initial().SelectBuilding(floor.NewBuilding).SelectFloor(floor.ThirdFloor)
	if _, ok := s.Layout.Room("NB7"); !ok {
		t.Error("NB7 missing on NEW BUILDING 3RD FLOOR")
	}

	unknown := s.SelectFloor("9TH FLOOR")
	if len(unknown.Layout.Rooms) != 0 || unknown.Layout.CanvasWidth != floor.FallbackWidth {
		t.Errorf("unknown floor layout = %+v", unknown.Layout)
	}
}

func TestStaleRoomsIgnored(t *testing.T) {
	s := initial()
	oldGen := s.Generation
	s = s.SelectBuilding(floor.Annex)

	records := []reconcile.ServerRoom{reconcile.Record("101").WithStatus("completed")}
	late := s.RoomsLoaded(oldGen, records)
	if !reflect.DeepEqual(late, s) {
		t.Error("stale rooms response changed the state")
	}
	if failed := s.RoomsFailed(oldGen); failed.Warning != "" {
		t.Error("stale failure set a warning")
	}

	cur := s.RoomsLoaded(s.Generation, records)
	r, _ := cur.Layout.Room("101")
	if r.Status != floor.StatusCompleted || !cur.Live || cur.Loading {
		t.Errorf("current response not applied: %s live=%v loading=%v", r.Status, cur.Live, cur.Loading)
	}
}

func TestRoomsLoadedEmpty(t *testing.T) {
	s := initial()
	got := s.RoomsLoaded(s.Generation, nil)
	if got.Live || got.Warning != "" || got.Loading {
		t.Errorf("empty load = live %v warning %q loading %v", got.Live, got.Warning, got.Loading)
	}
	if !reflect.DeepEqual(got.Layout, floor.Generate(s.Building, s.Floor)) {
		t.Error("empty load changed the layout")
	}
}

func TestRoomsFailed(t *testing.T) {
	s := initial()
	s = s.RoomsLoaded(s.Generation, []reconcile.ServerRoom{reconcile.Record("A4").WithStatus("completed")})
	s = s.SelectBuilding(floor.DFABuilding)
	got := s.RoomsFailed(s.Generation)

	if got.Warning != WarnRoomsUnavailable || got.Live || got.Loading {
		t.Errorf("failure state = %+v", got)
	}
	if !reflect.DeepEqual(got.Layout.Rooms, floor.Generate(floor.DFABuilding, floor.SecondFloor).Rooms) {
		t.Error("fallback rooms differ from generated defaults")
	}
}

func TestSelectRoom(t *testing.T) {
	s := initial()
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"Room", "A4", "A4"},
		{"Hallway", "HALLWAY", "HALLWAY"},
		{"Unknown", "Z9", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SelectRoom(tt.id)
			if got.Selected != tt.want {
				t.Errorf("Selected = %q, want %q", got.Selected, tt.want)
			}
			if tt.want != "" && !got.RequestsLoading {
				t.Error("requests not marked loading")
			}
		})
	}

	s.Layout = s.Layout.Clone()
	s.Layout.Rooms = append(s.Layout.Rooms, floor.Room{ID: "TITLE", Kind: floor.KindTitle})
	if got := s.SelectRoom("TITLE"); got.Selected != "" {
		t.Error("title label was selectable")
	}
}

func TestRequestsResponses(t *testing.T) {
	s := initial().SelectRoom("A4")
	reqs := []backend.Request{{ID: "1", Room: "A4", Title: "Fan"}}

	if got := s.RequestsLoaded(s.Generation, "A2", reqs); got.Requests != nil {
		t.Error("requests for another room were shown")
	}
	if got := s.RequestsLoaded(s.Generation-1, "A4", reqs); got.Requests != nil {
		t.Error("stale requests were shown")
	}
	got := s.RequestsLoaded(s.Generation, "A4", reqs)
	if len(got.Requests) != 1 || got.RequestsLoading {
		t.Errorf("requests = %v loading %v", got.Requests, got.RequestsLoading)
	}
	reqs[0].Title = "changed"
	if got.Requests[0].Title != "Fan" {
		t.Error("state aliases the caller's slice")
	}

	failed := s.RequestsFailed(s.Generation, "A4")
	if failed.Error != ErrRequestsFailed || failed.RequestsLoading {
		t.Errorf("failure = %q loading %v", failed.Error, failed.RequestsLoading)
	}
}

func TestSubmitFlow(t *testing.T) {
	s := initial().SelectRoom("A6").OpenModal()
	if !s.ModalOpen {
		t.Fatal("modal did not open")
	}

	s = s.EditDraft(Draft{Title: "  ", Priority: backend.PriorityHigh})
	if bad, _, err := s.BeginSubmit(); err == nil || bad.Submitting || bad.Error == "" {
		t.Error("blank title accepted")
	}

	s = s.EditDraft(Draft{Title: "Broken window", Description: "north side"})
	s, req, err := s.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	if !s.Submitting || req.Room != "A6" || req.Priority != backend.PriorityMedium {
		t.Errorf("submit = %+v, state submitting %v", req, s.Submitting)
	}

	ok := s.SubmitSucceeded()
	if ok.ModalOpen || ok.Submitting || ok.Draft.Title != "" || ok.Generation != s.Generation+1 || !ok.Loading {
		t.Errorf("after success = %+v", ok)
	}
}

func TestSubmitFailed(t *testing.T) {
	s := initial().SelectRoom("A6").OpenModal().EditDraft(Draft{Title: "Leak"})
	s, req, err := s.BeginSubmit()
	if err != nil {
		t.Fatal(err)
	}
	before := s.Stats()

	got := s.SubmitFailed(req, time.Now())
	room, _ := got.SelectedRoom()
	if room.Status != floor.StatusPending || room.RequestCount != 1 {
		t.Errorf("A6 = %s/%d, want pending/1", room.Status, room.RequestCount)
	}
	if !got.ModalOpen || got.Submitting || got.Error != ErrSubmitFailed {
		t.Errorf("form state = open %v submitting %v error %q", got.ModalOpen, got.Submitting, got.Error)
	}
	if len(got.Requests) != 1 || !got.Requests[0].Local {
		t.Errorf("requests = %+v, want one local placeholder", got.Requests)
	}
	after := got.Stats()
	if after.Pending != before.Pending+1 || after.NoRequest != before.NoRequest-1 {
		t.Errorf("stats %+v -> %+v", before, after)
	}
	if orig, _ := s.SelectedRoom(); orig.Status != floor.StatusNoRequest {
		t.Error("SubmitFailed mutated the previous state's layout")
	}
}

func TestFilterAndVisible(t *testing.T) {
	s := initial().SetStatusFilter(floor.StatusCompleted)
	if n := len(s.Visible()); n != 3 {
		t.Errorf("completed rooms = %d, want 3", n)
	}
	s = s.SetSearch("a1")
	var ids []string
	for _, r := range s.Visible() {
		ids = append(ids, r.ID)
	}
	if !reflect.DeepEqual(ids, []string{"A12"}) {
		t.Errorf("visible = %v", ids)
	}
	if s.Stats().Total != 18 {
		t.Error("Stats() should ignore the filter")
	}
}

func TestZoom(t *testing.T) {
	s := initial()
	for range 20 {
		s = s.ZoomIn()
	}
	if s.Zoom != MaxZoom {
		t.Errorf("zoom = %g, want %g", s.Zoom, MaxZoom)
	}
	for range 20 {
		s = s.ZoomOut()
	}
	if s.Zoom != MinZoom {
		t.Errorf("zoom = %g, want %g", s.Zoom, MinZoom)
	}
	if s.ZoomIn().Zoom != 0.75 {
		t.Error("zoom step is not 0.25")
	}
	if s.ResetZoom().Zoom != 1 {
		t.Error("ResetZoom")
	}
	if g := s.ToggleGrid(); g.Grid == s.Grid {
		t.Error("ToggleGrid")
	}
	if d := s.ToggleDimensions(); d.Dimensions == s.Dimensions {
		t.Error("ToggleDimensions")
	}
}
