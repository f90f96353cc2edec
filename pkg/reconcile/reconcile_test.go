package reconcile

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

func ptr[T any](v T) *T { return &v }

func idp(s string) *ID { v := ID(s); return &v }

func fixture() floor.Layout {
	return floor.Layout{
		CanvasWidth:  300,
		CanvasHeight: 100,
		Rooms: []floor.Room{
			{ID: "A1", Number: "A1", Name: "Room A1", Rect: floor.Rect{X: 0, Y: 0, Width: 80, Height: 80}, Status: floor.StatusNoRequest},
			{ID: "A2", Number: "A2", Name: "Room A2", Rect: floor.Rect{X: 100, Y: 0, Width: 80, Height: 80}, Status: floor.StatusPending, RequestCount: 1},
			{ID: "LAB", Number: "LAB", Name: "Speech Laboratory", Rect: floor.Rect{X: 200, Y: 0, Width: 80, Height: 80}, Status: floor.StatusNoRequest},
		},
	}
}

func TestReconcilePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		records    []ServerRoom
		wantStatus floor.Status
		wantBy     Criterion
	}{
		{
			name: "IDBeatsNumber",
			records: []ServerRoom{
				{RoomNumber: idp("A1"), Status: ptr("in_progress")},
				{ID: idp("A1"), Status: ptr("completed")},
			},
			wantStatus: floor.StatusCompleted,
			wantBy:     ByID,
		},
		{
			name: "RoomIDBeatsName",
			records: []ServerRoom{
				{Name: ptr("room a1"), Status: ptr("in_progress")},
				{RoomID: idp("A1"), Status: ptr("pending")},
			},
			wantStatus: floor.StatusPending,
			wantBy:     ByRoomID,
		},
		{
			name: "NumberBeatsName",
			records: []ServerRoom{
				{RoomName: ptr("ROOM A1"), Status: ptr("completed")},
				{RoomNumber: idp("A1"), Status: ptr("in_progress")},
			},
			wantStatus: floor.StatusInProgress,
			wantBy:     ByNumber,
		},
		{
			name:       "NameIgnoresCase",
			records:    []ServerRoom{{Name: ptr("ROOM a1"), Status: ptr("completed")}},
			wantStatus: floor.StatusCompleted,
			wantBy:     ByName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := fixture()
			matches := Assign(l.Rooms[:1], tt.records)
			if len(matches) != 1 || matches[0].By != tt.wantBy {
				t.Fatalf("Assign() = %+v, want one match by %s", matches, tt.wantBy)
			}
			got := Reconcile(l, tt.records).Rooms[0]
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestReconcileGlobalPrecedence(t *testing.T) {
	// The first room would take the record by number if rooms were matched one
	// at a time; global precedence gives it to A2's id match instead.
	l := fixture()
	l.Rooms[0].Number = "X"
	records := []ServerRoom{{ID: idp("A2"), RoomNumber: idp("X"), Status: ptr("completed")}}

	got := Reconcile(l, records)
	if got.Rooms[0].Status != floor.StatusNoRequest {
		t.Errorf("A1 status = %s, want unchanged", got.Rooms[0].Status)
	}
	if got.Rooms[1].Status != floor.StatusCompleted {
		t.Errorf("A2 status = %s, want completed", got.Rooms[1].Status)
	}
}

func TestReconcileClaimsOnce(t *testing.T) {
	l := fixture()
	l.Rooms[1].Number = "A1"
	records := []ServerRoom{{RoomNumber: idp("A1"), Status: ptr("completed"), RequestCount: ptr(Count(4))}}

	got := Reconcile(l, records)
	if got.Rooms[0].Status != floor.StatusCompleted || got.Rooms[0].RequestCount != 4 {
		t.Errorf("first room = %+v", got.Rooms[0])
	}
	if got.Rooms[1].Status != floor.StatusPending || got.Rooms[1].RequestCount != 1 {
		t.Errorf("second room received a claimed record: %+v", got.Rooms[1])
	}
}

func TestReconcileNoOp(t *testing.T) {
	for _, records := range [][]ServerRoom{nil, {}} {
		l := fixture()
		if got := Reconcile(l, records); !reflect.DeepEqual(got, l) {
			t.Errorf("Reconcile(%v) changed the layout", records)
		}
	}
}

func TestReconcileUnmatched(t *testing.T) {
	l := fixture()
	records := []ServerRoom{
		{ID: idp("ZZZ"), Status: ptr("completed")},
		{},
		{Name: ptr(""), RoomNumber: idp("")},
	}
	if got := Reconcile(l, records); !reflect.DeepEqual(got, l) {
		t.Errorf("unmatched records changed the layout: %+v", got.Rooms)
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	l := fixture()
	_ = Reconcile(l, []ServerRoom{Record("A1").WithStatus("completed")})
	if l.Rooms[0].Status != floor.StatusNoRequest {
		t.Error("Reconcile() mutated its input")
	}
}

func TestApplyFields(t *testing.T) {
	base := fixture().Rooms[1]

	tests := []struct {
		name  string
		rec   ServerRoom
		check func(t *testing.T, r floor.Room)
	}{
		{
			name: "CanonicalID",
			rec:  ServerRoom{RoomID: idp("42")},
			check: func(t *testing.T, r floor.Room) {
				if r.ID != "42" {
					t.Errorf("id = %s, want 42", r.ID)
				}
			},
		},
		{
			name: "IDPreferredOverRoomID",
			rec:  ServerRoom{ID: idp("7"), RoomID: idp("42")},
			check: func(t *testing.T, r floor.Room) {
				if r.ID != "7" {
					t.Errorf("id = %s, want 7", r.ID)
				}
			},
		},
		{
			name: "NamePreferredOverRoomName",
			rec:  ServerRoom{Name: ptr("Music"), RoomName: ptr("Arts")},
			check: func(t *testing.T, r floor.Room) {
				if r.Name != "Music" {
					t.Errorf("name = %s", r.Name)
				}
			},
		},
		{
			name: "RoomNameFallback",
			rec:  ServerRoom{RoomName: ptr("Arts")},
			check: func(t *testing.T, r floor.Room) {
				if r.Name != "Arts" {
					t.Errorf("name = %s", r.Name)
				}
			},
		},
		{
			name: "PresentZeroOverrides",
			rec:  ServerRoom{RequestCount: ptr(Count(0))},
			check: func(t *testing.T, r floor.Room) {
				if r.RequestCount != 0 {
					t.Errorf("count = %d, want 0", r.RequestCount)
				}
			},
		},
		{
			name: "RequestsCountFallback",
			rec:  ServerRoom{RequestsCount: ptr(Count(5))},
			check: func(t *testing.T, r floor.Room) {
				if r.RequestCount != 5 {
					t.Errorf("count = %d, want 5", r.RequestCount)
				}
			},
		},
		{
			name: "NegativeCountIgnored",
			rec:  ServerRoom{RequestCount: ptr(Count(-2)), RequestsCount: ptr(Count(3))},
			check: func(t *testing.T, r floor.Room) {
				if r.RequestCount != 3 {
					t.Errorf("count = %d, want 3", r.RequestCount)
				}
			},
		},
		{
			name: "UnknownStatusIgnored",
			rec:  ServerRoom{Status: ptr("exploded")},
			check: func(t *testing.T, r floor.Room) {
				if r.Status != floor.StatusPending {
					t.Errorf("status = %s, want pending", r.Status)
				}
			},
		},
		{
			name: "AbsentFieldsKeepDefaults",
			rec:  ServerRoom{},
			check: func(t *testing.T, r floor.Room) {
				if !reflect.DeepEqual(r, fixture().Rooms[1]) {
					t.Errorf("room changed: %+v", r)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(base, tt.rec)
			if got.Rect != base.Rect || got.Kind != base.Kind {
				t.Errorf("geometry changed: %+v", got)
			}
			tt.check(t, got)
		})
	}
}

func TestReconcileA4(t *testing.T) {
	l := floor.Generate(floor.DFABuilding, floor.SecondFloor)
	before, _ := l.Room("A4")
	if before.Status != floor.StatusPending || before.RequestCount != 1 {
		t.Fatalf("generated A4 = %s/%d", before.Status, before.RequestCount)
	}

	var records []ServerRoom
	if err := json.Unmarshal([]byte(`[{"id":"A4","status":"completed","request_count":3}]`), &records); err != nil {
		t.Fatal(err)
	}
	after, ok := Reconcile(l, records).Room("A4")
	if !ok {
		t.Fatal("A4 missing after reconcile")
	}
	if after.Status != floor.StatusCompleted || after.RequestCount != 3 {
		t.Errorf("A4 = %s/%d, want completed/3", after.Status, after.RequestCount)
	}
	if after.Rect != before.Rect || after.Kind != before.Kind || after.Number != before.Number {
		t.Errorf("A4 identity or geometry changed: %+v", after)
	}
}

func TestServerRoomJSON(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantID     string
		wantRID    string
		wantNumber string
		wantCount  int
		hasCount   bool
		wantErr    bool
	}{
		{name: "StringID", in: `{"id":"A4"}`, wantID: "A4"},
		{name: "NumericID", in: `{"id":17}`, wantID: "17"},
		{name: "NumericRoomID", in: `{"room_id":305}`, wantRID: "305"},
		{name: "NullID", in: `{"id":null}`},
		{name: "BoolID", in: `{"id":true}`, wantErr: true},
		{name: "StringRoomNumber", in: `{"room_number":"A4"}`, wantNumber: "A4"},
		{name: "NumericRoomNumber", in: `{"id":"101","room_number":101}`, wantID: "101", wantNumber: "101"},
		{name: "IntCount", in: `{"request_count":3}`, wantCount: 3, hasCount: true},
		{name: "StringCount", in: `{"id":"102","request_count":"2"}`, wantID: "102", wantCount: 2, hasCount: true},
		{name: "IntegralFloatCount", in: `{"requests_count":4.0}`, wantCount: 4, hasCount: true},
		{name: "GarbageCountAbsent", in: `{"id":"A4","request_count":"many"}`, wantID: "A4"},
		{name: "BoolCountAbsent", in: `{"request_count":true}`},
		{name: "FractionalCountAbsent", in: `{"request_count":1.5}`},
		{name: "GarbageFallsBackToRequestsCount", in: `{"request_count":{},"requests_count":"7"}`, wantCount: 7, hasCount: true},
		{name: "NullCount", in: `{"request_count":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ServerRoom
			err := json.Unmarshal([]byte(tt.in), &s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			gotID, _ := s.ID.value()
			gotRID, _ := s.RoomID.value()
			if gotID != tt.wantID || gotRID != tt.wantRID {
				t.Errorf("ids = %q/%q, want %q/%q", gotID, gotRID, tt.wantID, tt.wantRID)
			}
			if got, _ := s.RoomNumber.value(); got != tt.wantNumber {
				t.Errorf("room_number = %q, want %q", got, tt.wantNumber)
			}
			n, ok := s.count()
			if ok != tt.hasCount || n != tt.wantCount {
				t.Errorf("count() = %d, %v, want %d, %v", n, ok, tt.wantCount, tt.hasCount)
			}
		})
	}
}

func TestReconcileLooselyTypedRecords(t *testing.T) {
	var records []ServerRoom
	body := `[{"id":"101","room_number":101,"status":"completed","request_count":3},
		{"id":"102","status":"in_progress","request_count":"2"}]`
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		t.Fatal(err)
	}
	l := Reconcile(floor.Generate(floor.Annex, floor.GroundFloor), records)
	want := map[string]struct {
		status floor.Status
		count  int
	}{
		"101": {floor.StatusCompleted, 3},
		"102": {floor.StatusInProgress, 2},
	}
	for _, r := range l.Rooms {
		w, ok := want[r.ID]
		if !ok {
			continue
		}
		if r.Status != w.status || r.RequestCount != w.count {
			t.Errorf("%s = %s/%d, want %s/%d", r.ID, r.Status, r.RequestCount, w.status, w.count)
		}
		delete(want, r.ID)
	}
	if len(want) != 0 {
		t.Errorf("rooms not found on ANNEX ground floor: %v", want)
	}
}

func TestMarkPending(t *testing.T) {
	l := fixture()
	got := MarkPending(l, "A1")
	if r := got.Rooms[0]; r.Status != floor.StatusPending || r.RequestCount != 1 {
		t.Errorf("A1 = %s/%d, want pending/1", r.Status, r.RequestCount)
	}
	got = MarkPending(got, "A1")
	if r := got.Rooms[0]; r.RequestCount != 2 {
		t.Errorf("second mark count = %d, want 2", r.RequestCount)
	}
	if l.Rooms[0].Status != floor.StatusNoRequest {
		t.Error("MarkPending() mutated its input")
	}
	if !reflect.DeepEqual(MarkPending(l, "nope"), l) {
		t.Error("unknown id changed the layout")
	}
}

func TestStats(t *testing.T) {
	l := fixture()
	s := Compute(l.Rooms)
	want := Stats{Total: 3, Pending: 1, NoRequest: 2}
	if s != want {
		t.Errorf("Compute() = %+v, want %+v", s, want)
	}

	after := Compute(MarkPending(l, "LAB").Rooms)
	if after.Pending != 2 || after.NoRequest != 1 {
		t.Errorf("after mark = %+v", after)
	}
	if s.Count(floor.StatusNoRequest) != 2 || s.Count(floor.StatusAll) != 3 {
		t.Error("Count() mismatch")
	}
}

func TestStatsInvariant(t *testing.T) {
	records := []ServerRoom{
		Record("A4").WithStatus("completed").WithCount(3),
		Record("A1").WithStatus("in progress"),
		{RoomNumber: idp("SSC"), Status: ptr("bogus")},
	}
	for _, b := range floor.DefaultRegistry().Buildings() {
		for _, f := range b.Floors {
			s := Compute(Reconcile(floor.Generate(b.Name, f), records).Rooms)
			if s.Pending+s.InProgress+s.Completed+s.NoRequest != s.Total {
				t.Errorf("%s/%s: %+v does not sum to total", b.Name, f, s)
			}
		}
	}
}
