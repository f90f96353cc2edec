package floor

import (
	"slices"
	"strings"
	"sync"
)

// Fallback canvas for unknown buildings and floors.
const (
	FallbackWidth  = 800.0
	FallbackHeight = 600.0
)

// Plan builds the layout of one floor.
type Plan func() Layout

// Building is a named building with its floors in display order.
type Building struct {
	Name   string   `json:"name"`
	Floors []string `json:"floors"`
}

// Registry maps buildings and floors to plans. It is built once and only read
// afterwards, so it is safe for concurrent use.
type Registry struct {
	buildings []Building
	plans     map[string]map[string]Plan

	defaultBuilding, defaultFloor string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plans: make(map[string]map[string]Plan)}
}

// Register adds a floor plan. Floors keep the order in which they are registered.
func (r *Registry) Register(building, floor string, plan Plan) {
	floors, ok := r.plans[building]
	if !ok {
		floors = make(map[string]Plan)
		r.plans[building] = floors
		r.buildings = append(r.buildings, Building{Name: building})
	}
	if _, dup := floors[floor]; !dup {
		i := slices.IndexFunc(r.buildings, func(b Building) bool { return b.Name == building })
		r.buildings[i].Floors = append(r.buildings[i].Floors, floor)
	}
	floors[floor] = plan
}

// SetDefault sets the selection shown when nothing has been chosen yet.
func (r *Registry) SetDefault(building, floor string) {
	r.defaultBuilding, r.defaultFloor = building, floor
}

// Default returns the initial building and floor. Without an explicit
// default it is the first floor of the first building.
func (r *Registry) Default() (building, floor string) {
	if r.defaultBuilding != "" {
		return r.defaultBuilding, r.defaultFloor
	}
	if len(r.buildings) == 0 {
		return "", ""
	}
	b := r.buildings[0]
	return b.Name, firstOr(b.Floors, "")
}

// Buildings returns the buildings in display order.
func (r *Registry) Buildings() []Building {
	out := make([]Building, len(r.buildings))
	for i, b := range r.buildings {
		out[i] = Building{Name: b.Name, Floors: slices.Clone(b.Floors)}
	}
	return out
}

// Floors returns the floors of a building, or nil if it is unknown.
func (r *Registry) Floors(building string) []string {
	for _, b := range r.buildings {
		if b.Name == building {
			return slices.Clone(b.Floors)
		}
	}
	return nil
}

// FirstFloor returns the floor selected when the building is chosen.
func (r *Registry) FirstFloor(building string) string {
	return firstOr(r.Floors(building), "")
}

// Has reports whether a plan exists for the pair.
func (r *Registry) Has(building, floor string) bool {
	_, ok := r.plans[building][floor]
	return ok
}

// Resolve maps user input to registered names, ignoring case and repeated
// whitespace. It returns false when nothing matches.
func (r *Registry) Resolve(building, floor string) (string, string, bool) {
	for _, b := range r.buildings {
		if !sameName(b.Name, building) {
			continue
		}
		for _, f := range b.Floors {
			if sameName(f, floor) {
				return b.Name, f, true
			}
		}
	}
	return "", "", false
}

// Generate returns the layout of a floor. Unknown pairs yield an empty layout
// with the fallback canvas.
func (r *Registry) Generate(building, floor string) Layout {
	plan, ok := r.plans[building][floor]
	if !ok {
		return Layout{Rooms: []Room{}, CanvasWidth: FallbackWidth, CanvasHeight: FallbackHeight}
	}
	l := plan()
	l.Building, l.Floor = building, floor
	return l
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the campus registry.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		registerNewBuilding(r)
		registerDFABuilding(r)
		registerAnnex(r)
		r.SetDefault(DFABuilding, SecondFloor)
		defaultRegistry = r
	})
	return defaultRegistry
}

// Generate returns the layout of a floor from [DefaultRegistry].
func Generate(building, floor string) Layout {
	return DefaultRegistry().Generate(building, floor)
}

// Building and floor names used by the campus plans.
const (
	NewBuilding = "NEW BUILDING"
	DFABuilding = "DFA BUILDING"
	Annex       = "ANNEX"

	GroundFloor = "GROUND FLOOR"
	SecondFloor = "2ND FLOOR"
	ThirdFloor  = "3RD FLOOR"
	FourthFloor = "4TH FLOOR"
)

func sameName(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}

func firstOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[0]
}
