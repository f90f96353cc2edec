package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/cache"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/view"
)

type fakeRooms struct {
	records []reconcile.ServerRoom
	err     error
}

func (f *fakeRooms) FetchRooms(ctx context.Context, building, fl string) ([]reconcile.ServerRoom, error) {
	return f.records, f.err
}

type fakeRequests struct {
	list      []backend.Request
	submitErr error
	submitted []backend.NewRequest
}

func (f *fakeRequests) FetchRequests(ctx context.Context, roomID string) ([]backend.Request, error) {
	var out []backend.Request
	for _, r := range f.list {
		if string(r.Room) == roomID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) SubmitRequest(ctx context.Context, n backend.NewRequest) (*backend.Request, error) {
	f.submitted = append(f.submitted, n)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &backend.Request{
		ID:       "42",
		Room:     reconcile.ID(n.Room),
		Title:    n.Title,
		Priority: n.Priority,
		Status:   floor.StatusPending,
	}, nil
}

func newTestServer(t *testing.T, rooms pipeline.RoomSource, c cache.Cache, requests RequestService) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	return New(pipeline.NewRunner(rooms, c, nil, logger), requests, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" || body["offline"] != true {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want abc-123", got)
	}
}

func TestBuildings(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rec := do(t, s, http.MethodGet, "/api/buildings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[buildingsResponse](t, rec)
	if len(body.Buildings) != 3 {
		t.Fatalf("got %d buildings, want 3", len(body.Buildings))
	}
	if body.Buildings[0].Name != floor.NewBuilding || len(body.Buildings[2].Floors) != 4 {
		t.Errorf("buildings = %+v", body.Buildings)
	}
	if body.Default != (selection{Building: floor.DFABuilding, Floor: floor.SecondFloor}) {
		t.Errorf("default = %+v", body.Default)
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name         string
		query        url.Values
		rooms        pipeline.RoomSource
		wantStatus   int
		wantBuilding string
		wantFloor    string
		wantLive     bool
		wantWarning  string
	}{
		{
			name:         "default floor",
			wantStatus:   http.StatusOK,
			wantBuilding: floor.DFABuilding,
			wantFloor:    floor.SecondFloor,
		},
		{
			name:         "names ignore case",
			query:        url.Values{"building": {"dfa building"}, "floor": {"2nd  floor"}},
			wantStatus:   http.StatusOK,
			wantBuilding: floor.DFABuilding,
			wantFloor:    floor.SecondFloor,
		},
		{
			name:         "building only selects first floor",
			query:        url.Values{"building": {"annex"}},
			wantStatus:   http.StatusOK,
			wantBuilding: floor.Annex,
			wantFloor:    floor.GroundFloor,
		},
		{
			name:       "unknown floor",
			query:      url.Values{"building": {"GYM"}, "floor": {"1ST FLOOR"}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:         "backend down",
			rooms:        &fakeRooms{err: stderrors.New("connection refused")},
			wantStatus:   http.StatusOK,
			wantBuilding: floor.DFABuilding,
			wantFloor:    floor.SecondFloor,
			wantWarning:  view.WarnRoomsUnavailable,
		},
		{
			name:         "live records",
			rooms:        &fakeRooms{records: []reconcile.ServerRoom{reconcile.Record("A4").WithStatus("completed").WithCount(0)}},
			wantStatus:   http.StatusOK,
			wantBuilding: floor.DFABuilding,
			wantFloor:    floor.SecondFloor,
			wantLive:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.rooms, nil, nil)
			rec := do(t, s, http.MethodGet, "/api/layout?"+tt.query.Encode(), "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantStatus != http.StatusOK {
				body := decode[errorResponse](t, rec)
				if body.Code != errors.ErrCodeUnknownFloor {
					t.Errorf("code = %s, want %s", body.Code, errors.ErrCodeUnknownFloor)
				}
				return
			}

			snap := decode[pipeline.Snapshot](t, rec)
			if snap.Building != tt.wantBuilding || snap.Floor != tt.wantFloor {
				t.Errorf("floor = %s / %s", snap.Building, snap.Floor)
			}
			if snap.Live != tt.wantLive || snap.Warning != tt.wantWarning {
				t.Errorf("live %v warning %q", snap.Live, snap.Warning)
			}
			if snap.Stats != reconcile.Compute(snap.Layout.Rooms) {
				t.Errorf("stats %+v do not match rooms", snap.Stats)
			}
			if tt.wantLive {
				a4, _ := snap.Layout.Room("A4")
				if a4.Status != floor.StatusCompleted || a4.RequestCount != 0 {
					t.Errorf("A4 = %s/%d, want completed/0", a4.Status, a4.RequestCount)
				}
			}
		})
	}
}

func TestBlueprint(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantType    string
		wantContain string
		wantCode    errors.Code
	}{
		{name: "svg default", query: "", wantStatus: 200, wantType: "image/svg+xml", wantContain: "<svg"},
		{name: "filtered", query: "status=pending&q=a4&grid=true", wantStatus: 200, wantType: "image/svg+xml", wantContain: `class="room dimmed"`},
		{name: "dot", query: "format=dot&building=annex&floor=ground%20floor", wantStatus: 200, wantType: "text/vnd.graphviz", wantContain: "layout=neato"},
		{name: "json", query: "format=json", wantStatus: 200, wantType: "application/json", wantContain: `"canvas_width"`},
		{name: "bad format", query: "format=gif", wantStatus: 400, wantCode: errors.ErrCodeInvalidFormat},
		{name: "bad style", query: "style=neon", wantStatus: 400, wantCode: errors.ErrCodeInvalidStyle},
		{name: "bad status", query: "status=broken", wantStatus: 400, wantCode: errors.ErrCodeInvalidInput},
		{name: "bad bool", query: "grid=maybe", wantStatus: 400, wantCode: errors.ErrCodeInvalidInput},
		{name: "unknown floor", query: "building=gym&floor=1", wantStatus: 404, wantCode: errors.ErrCodeUnknownFloor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/blueprint?"+tt.query, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantCode != "" {
				if body := decode[errorResponse](t, rec); body.Code != tt.wantCode {
					t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
				}
				return
			}
			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
			}
			if !strings.Contains(rec.Body.String(), tt.wantContain) {
				t.Errorf("body missing %q", tt.wantContain)
			}
			if rec.Header().Get("X-Data-Source") != "default" {
				t.Errorf("X-Data-Source = %q", rec.Header().Get("X-Data-Source"))
			}
		})
	}
}

func TestBlueprintCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, nil, fc, nil)

	first := do(t, s, http.MethodGet, "/api/blueprint?grid=1", "")
	second := do(t, s, http.MethodGet, "/api/blueprint?grid=1", "")
	refreshed := do(t, s, http.MethodGet, "/api/blueprint?grid=1&refresh=true", "")

	for _, tc := range []struct {
		rec  *httptest.ResponseRecorder
		want string
	}{{first, "miss"}, {second, "hit"}, {refreshed, "miss"}} {
		if got := tc.rec.Header().Get("X-Cache"); got != tc.want {
			t.Errorf("X-Cache = %q, want %q", got, tc.want)
		}
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body differs from rendered body")
	}
}

func TestListRequests(t *testing.T) {
	reqs := &fakeRequests{list: []backend.Request{
		{ID: "1", Room: "A4", Title: "Leaking tap", Priority: backend.PriorityHigh, Status: floor.StatusPending},
		{ID: "2", Room: "A5", Title: "Broken chair", Priority: backend.PriorityLow, Status: floor.StatusCompleted},
	}}

	t.Run("lists the room's requests", func(t *testing.T) {
		s := newTestServer(t, nil, nil, reqs)
		rec := do(t, s, http.MethodGet, "/api/rooms/A4/requests", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		got := decode[[]backend.Request](t, rec)
		if len(got) != 1 || got[0].Title != "Leaking tap" {
			t.Errorf("requests = %+v", got)
		}
	})

	t.Run("empty list is an array", func(t *testing.T) {
		s := newTestServer(t, nil, nil, reqs)
		rec := do(t, s, http.MethodGet, "/api/rooms/Z9/requests", "")
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("body = %q, want []", rec.Body)
		}
	})

	t.Run("invalid room id", func(t *testing.T) {
		s := newTestServer(t, nil, nil, reqs)
		rec := do(t, s, http.MethodGet, "/api/rooms/a..b/requests", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("offline", func(t *testing.T) {
		s := newTestServer(t, nil, nil, nil)
		rec := do(t, s, http.MethodGet, "/api/rooms/A4/requests", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestSubmitRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		submitErr  error
		wantStatus int
		wantCode   errors.Code
		wantSent   int
	}{
		{
			name:       "created",
			body:       `{"title":"  Flickering light ","priority":"HIGH"}`,
			wantStatus: http.StatusCreated,
			wantSent:   1,
		},
		{
			name:       "blank title",
			body:       `{"title":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "bad priority",
			body:       `{"title":"x","priority":"urgent"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "malformed body",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "backend rejects",
			body:       `{"title":"Door jammed"}`,
			submitErr:  errors.New(errors.ErrCodeBackend, "backend returned 500"),
			wantStatus: http.StatusBadGateway,
			wantCode:   errors.ErrCodeBackend,
			wantSent:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := &fakeRequests{submitErr: tt.submitErr}
			s := newTestServer(t, nil, nil, reqs)
			rec := do(t, s, http.MethodPost, "/api/rooms/A6/requests", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if len(reqs.submitted) != tt.wantSent {
				t.Fatalf("submitted %d requests, want %d", len(reqs.submitted), tt.wantSent)
			}

			if tt.wantStatus == http.StatusCreated {
				got := decode[backend.Request](t, rec)
				if got.Title != "Flickering light" || got.Priority != backend.PriorityHigh || got.Room != "A6" {
					t.Errorf("created = %+v", got)
				}
				return
			}

			body := decode[errorResponse](t, rec)
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if tt.submitErr != nil {
				p := body.Placeholder
				if p == nil || !p.Local || p.Status != floor.StatusPending || p.Priority != backend.PriorityMedium {
					t.Errorf("placeholder = %+v", p)
				}
			}
		})
	}
}
