package floor

import "strings"

// StatusAll disables status filtering.
const StatusAll Status = "all"

// Filter narrows the rooms shown on a map. The zero value matches everything.
type Filter struct {
	Status Status
	Search string
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return (f.Status != "" && f.Status != StatusAll) || strings.TrimSpace(f.Search) != ""
}

// Match reports whether r passes both the status filter and the search term.
// The term is matched case-insensitively against the number, name and id.
func (f Filter) Match(r Room) bool {
	if f.Status != "" && f.Status != StatusAll && r.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{r.Number, r.Name, r.ID} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply returns the matching rooms in their original order.
func (f Filter) Apply(rooms []Room) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
