package reconcile

import "github.com/matzehuels/facilitymap/pkg/floor"

// Stats counts rooms per status.
type Stats struct {
	Total      int `json:"total" bson:"total"`
	Pending    int `json:"pending" bson:"pending"`
	InProgress int `json:"in_progress" bson:"in_progress"`
	Completed  int `json:"completed" bson:"completed"`
	NoRequest  int `json:"no_request" bson:"no_request"`
}

// Compute folds rooms into Stats. NoRequest is whatever the other three
// statuses do not account for, so the counts always sum to Total.
func Compute(rooms []floor.Room) Stats {
	s := Stats{Total: len(rooms)}
	for _, r := range rooms {
		switch r.Status {
		case floor.StatusPending:
			s.Pending++
		case floor.StatusInProgress:
			s.InProgress++
		case floor.StatusCompleted:
			s.Completed++
		}
	}
	s.NoRequest = s.Total - s.Pending - s.InProgress - s.Completed
	return s
}

// Count returns the number of rooms with status st.
func (s Stats) Count(st floor.Status) int {
	switch st {
	case floor.StatusPending:
		return s.Pending
	case floor.StatusInProgress:
		return s.InProgress
	case floor.StatusCompleted:
		return s.Completed
	case floor.StatusNoRequest:
		return s.NoRequest
	default:
		return s.Total
	}
}
