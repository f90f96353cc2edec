package backend

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
)

// Priority of a maintenance request.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority normalizes s. The empty string yields [PriorityMedium].
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PriorityMedium, nil
	}
	for _, known := range Priorities {
		if p == known {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "priority must be low, medium or high, got %q", s)
}

// Request is a maintenance request as stored by the backend.
type Request struct {
	ID          reconcile.ID `json:"id"`
	Room        reconcile.ID `json:"room"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    Priority     `json:"priority"`
	Status      floor.Status `json:"status"`
	CreatedAt   string       `json:"created_at,omitempty"`

	// Local marks a request that exists only on this client because the
	// backend did not accept it.
	Local bool `json:"local,omitempty"`
}

// Created parses CreatedAt. Backends differ in precision, so both RFC 3339
// with and without fractional seconds are accepted.
func (r Request) Created() (time.Time, bool) {
	if r.CreatedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NewRequest is the form a user fills in to file a request.
type NewRequest struct {
	Room        string   `json:"room"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Normalize trims the fields, applies the default priority and validates the
// result.
func (n NewRequest) Normalize() (NewRequest, error) {
	n.Room = strings.TrimSpace(n.Room)
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)

	if err := errors.ValidateRoomID(n.Room); err != nil {
		return n, err
	}
	if n.Title == "" {
		return n, errors.New(errors.ErrCodeInvalidInput, "title is required")
	}
	p, err := ParsePriority(string(n.Priority))
	if err != nil {
		return n, err
	}
	n.Priority = p
	return n, nil
}

// payload is the POST body.
type payload struct {
	Room        string   `json:"room"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      string   `json:"status"`
}

func (n NewRequest) payload() payload {
	return payload{
		Room:        n.Room,
		Title:       n.Title,
		Description: n.Description,
		Priority:    n.Priority,
		Status:      string(floor.StatusPending),
	}
}

// Placeholder returns a local stand-in for a request the backend rejected,
// so that it can be listed until the next successful fetch replaces it.
func Placeholder(n NewRequest, now time.Time) Request {
	return Request{
		ID:          reconcile.ID("local-" + uuid.NewString()),
		Room:        reconcile.ID(n.Room),
		Title:       n.Title,
		Description: n.Description,
		Priority:    n.Priority,
		Status:      floor.StatusPending,
		CreatedAt:   now.UTC().Format(time.RFC3339),
		Local:       true,
	}
}
