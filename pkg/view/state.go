package view

import (
	"slices"
	"time"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
)

// Messages shown to the user.
const (
	WarnRoomsUnavailable = "Failed to load room data. Using default layout."
	ErrRequestsFailed    = "Failed to load requests."
	ErrSubmitFailed      = "Failed to submit request. Please try again."
)

// Zoom limits.
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// Draft is the request form.
type Draft struct {
	Title       string
	Description string
	Priority    backend.Priority
}

func emptyDraft() Draft { return Draft{Priority: backend.PriorityMedium} }

// State is one immutable snapshot of the map.
type State struct {
	registry *floor.Registry

	Building string
	Floor    string
	Layout   floor.Layout

	// Generation tags fetches. Responses carrying another value are stale.
	Generation uint64
	Loading    bool
	Live       bool
	Warning    string
	Error      string

	Filter   floor.Filter
	Selected string

	Requests        []backend.Request
	RequestsLoading bool

	ModalOpen  bool
	Draft      Draft
	Submitting bool

	Zoom       float64
	Grid       bool
	Dimensions bool
}

// New returns the initial state for reg: its default floor, loading, with
// the grid shown.
func New(reg *floor.Registry) State {
	b, f := reg.Default()
	return State{
		registry:   reg,
		Building:   b,
		Floor:      f,
		Layout:     reg.Generate(b, f),
		Generation: 1,
		Loading:    true,
		Draft:      emptyDraft(),
		Zoom:       1,
		Grid:       true,
	}
}

// Registry returns the registry the state was built from.
func (s State) Registry() *floor.Registry { return s.registry }

// Visible returns the rooms that pass the filter, in layout order.
func (s State) Visible() []floor.Room { return s.Filter.Apply(s.Layout.Rooms) }

// Stats counts rooms per status over the whole floor, ignoring the filter.
func (s State) Stats() reconcile.Stats { return reconcile.Compute(s.Layout.Rooms) }

// SelectedRoom returns the selected room.
func (s State) SelectedRoom() (floor.Room, bool) {
	if s.Selected == "" {
		return floor.Room{}, false
	}
	return s.Layout.Room(s.Selected)
}

// =============================================================================
// Navigation
// =============================================================================

// SelectBuilding switches to the first floor of building.
func (s State) SelectBuilding(building string) State {
	return s.goTo(building, s.registry.FirstFloor(building))
}

// SelectFloor switches floors within the current building.
func (s State) SelectFloor(f string) State {
	return s.goTo(s.Building, f)
}

// goTo shows the generated defaults right away and starts a new generation
// for the room fetch the caller issues next.
func (s State) goTo(building, f string) State {
	s.Building, s.Floor = building, f
	s.Layout = s.registry.Generate(building, f)
	s.Generation++
	s.Loading = true
	s.Live = false
	s.Warning = ""
	s.Error = ""
	return s.ClearSelection()
}

// =============================================================================
// Filtering and selection
// =============================================================================

// SetStatusFilter restricts the map to one status; [floor.StatusAll] clears it.
func (s State) SetStatusFilter(st floor.Status) State {
	s.Filter.Status = st
	return s
}

// SetSearch sets the search term.
func (s State) SetSearch(q string) State {
	s.Filter.Search = q
	return s
}

// SelectRoom selects a room and marks its requests as loading. Unknown and
// non-selectable rooms leave the state unchanged.
func (s State) SelectRoom(id string) State {
	r, ok := s.Layout.Room(id)
	if !ok || !r.Selectable() {
		return s
	}
	s.Selected = r.ID
	s.Requests = nil
	s.RequestsLoading = true
	return s
}

// ClearSelection deselects the room and closes the request form.
func (s State) ClearSelection() State {
	s.Selected = ""
	s.Requests = nil
	s.RequestsLoading = false
	s.ModalOpen = false
	s.Submitting = false
	return s
}

// =============================================================================
// Request form
// =============================================================================

// OpenModal opens the request form for the selected room.
func (s State) OpenModal() State {
	if s.Selected == "" {
		return s
	}
	s.ModalOpen = true
	s.Error = ""
	return s
}

// CloseModal hides the form. The draft is kept.
func (s State) CloseModal() State {
	s.ModalOpen = false
	s.Submitting = false
	return s
}

// EditDraft replaces the form contents.
func (s State) EditDraft(d Draft) State {
	s.Draft = d
	return s
}

// BeginSubmit validates the draft. On success the returned request is ready
// to send and the state is marked as submitting; otherwise the validation
// message is shown and the error returned.
func (s State) BeginSubmit() (State, backend.NewRequest, error) {
	req, err := backend.NewRequest{
		Room:        s.Selected,
		Title:       s.Draft.Title,
		Description: s.Draft.Description,
		Priority:    s.Draft.Priority,
	}.Normalize()
	if err != nil {
		s.Error = "Please fill in all required fields."
		return s, req, err
	}
	s.Submitting = true
	s.Error = ""
	return s, req, nil
}

// SubmitSucceeded closes the form and starts a new generation so the caller
// re-fetches the floor and the room's requests.
func (s State) SubmitSucceeded() State {
	s.Submitting = false
	s.ModalOpen = false
	s.Draft = emptyDraft()
	s.Error = ""
	s.Generation++
	s.Loading = true
	if s.Selected != "" {
		s.RequestsLoading = true
	}
	return s
}

// SubmitFailed applies the request locally: the room turns pending with one
// more request and a placeholder joins its request list. The form stays open
// with an error.
func (s State) SubmitFailed(req backend.NewRequest, now time.Time) State {
	s.Submitting = false
	s.Error = ErrSubmitFailed
	s.Layout = reconcile.MarkPending(s.Layout, req.Room)
	if req.Room == s.Selected {
		s.Requests = append(slices.Clone(s.Requests), backend.Placeholder(req, now))
	}
	return s
}

// =============================================================================
// Backend responses
// =============================================================================

// RoomsLoaded merges live records onto the generated floor. Without records
// the generated defaults stand.
func (s State) RoomsLoaded(gen uint64, records []reconcile.ServerRoom) State {
	if gen != s.Generation {
		return s
	}
	base := s.registry.Generate(s.Building, s.Floor)
	s.Layout = reconcile.Reconcile(base, records)
	s.Live = len(records) > 0
	s.Loading = false
	s.Warning = ""
	return s.keepSelection()
}

// RoomsFailed falls back to the generated defaults with a warning.
func (s State) RoomsFailed(gen uint64) State {
	if gen != s.Generation {
		return s
	}
	s.Layout = s.registry.Generate(s.Building, s.Floor)
	s.Live = false
	s.Loading = false
	s.Warning = WarnRoomsUnavailable
	return s.keepSelection()
}

// keepSelection drops the selection if the room is gone, as happens when the
// backend renames it.
func (s State) keepSelection() State {
	if s.Selected != "" && s.Layout.Index(s.Selected) < 0 {
		return s.ClearSelection()
	}
	return s
}

// RequestsLoaded shows the requests of a room if it is still selected.
func (s State) RequestsLoaded(gen uint64, roomID string, reqs []backend.Request) State {
	if gen != s.Generation || roomID != s.Selected {
		return s
	}
	s.Requests = slices.Clone(reqs)
	s.RequestsLoading = false
	return s
}

// RequestsFailed clears the request list and shows an error.
func (s State) RequestsFailed(gen uint64, roomID string) State {
	if gen != s.Generation || roomID != s.Selected {
		return s
	}
	s.Requests = nil
	s.RequestsLoading = false
	s.Error = ErrRequestsFailed
	return s
}

// =============================================================================
// Display
// =============================================================================

func (s State) ZoomIn() State {
	s.Zoom = min(s.Zoom+ZoomStep, MaxZoom)
	return s
}

func (s State) ZoomOut() State {
	s.Zoom = max(s.Zoom-ZoomStep, MinZoom)
	return s
}

func (s State) ResetZoom() State {
	s.Zoom = 1
	return s
}

func (s State) ToggleGrid() State {
	s.Grid = !s.Grid
	return s
}

func (s State) ToggleDimensions() State {
	s.Dimensions = !s.Dimensions
	return s
}
