package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/buildinfo"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

type selection struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
}

type buildingsResponse struct {
	Buildings []floor.Building `json:"buildings"`
	Default   selection        `json:"default"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
	// Placeholder is the request as the client should show it locally when
	// the backend rejected a submission.
	Placeholder *backend.Request `json:"placeholder,omitempty"`
}

type submitBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"offline": s.runner.Offline(),
	})
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	reg := s.runner.Registry
	b, f := reg.Default()
	s.writeJSON(w, http.StatusOK, buildingsResponse{
		Buildings: reg.Buildings(),
		Default:   selection{Building: b, Floor: f},
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadFloor(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, ok := s.loadFloor(w, r)
	if !ok {
		return
	}

	opts.Live = snap.Live
	format := opts.Formats[0]
	artifacts, cached, err := s.runner.Render(r.Context(), snap.Layout, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("X-Cache", cacheState(cached))
	h.Set("X-Data-Source", dataSource(snap.Live))
	if snap.Warning != "" {
		h.Set("X-Warning", snap.Warning)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if err := errors.ValidateRoomID(roomID); err != nil {
		s.writeError(w, err)
		return
	}
	if s.requests == nil {
		s.writeUnavailable(w)
		return
	}

	reqs, err := s.requests.FetchRequests(r.Context(), roomID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if reqs == nil {
		reqs = []backend.Request{}
	}
	s.writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body submitBody
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	n, err := backend.NewRequest{
		Room:        chi.URLParam(r, "roomID"),
		Title:       body.Title,
		Description: body.Description,
		Priority:    backend.Priority(body.Priority),
	}.Normalize()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.requests == nil {
		s.writeUnavailable(w)
		return
	}

	created, err := s.requests.SubmitRequest(r.Context(), n)
	if err != nil {
		s.logger.Warn("submit failed", "room", n.Room, "error", err)
		placeholder := backend.Placeholder(n, time.Now())
		s.writeJSON(w, errors.HTTPStatus(err), errorResponse{
			Error:       errors.UserMessage(err),
			Code:        errors.GetCode(err),
			Placeholder: &placeholder,
		})
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// =============================================================================
// Helpers
// =============================================================================

// loadFloor resolves the building and floor query parameters, defaulting to
// the registry's default floor, and loads it. It writes the error response
// itself and reports whether the caller should continue.
func (s *Server) loadFloor(w http.ResponseWriter, r *http.Request) (*pipeline.Snapshot, bool) {
	q := r.URL.Query()
	reg := s.runner.Registry
	building, fl := q.Get("building"), q.Get("floor")
	if building == "" && fl == "" {
		building, fl = reg.Default()
	} else if fl == "" {
		fl = firstFloor(reg, building)
	}

	b, f, ok := reg.Resolve(building, fl)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeUnknownFloor, "unknown floor %q / %q", building, fl))
		return nil, false
	}

	snap, err := s.runner.Load(r.Context(), b, f)
	if err != nil {
		// Only a cancelled request gets here; nobody is listening.
		return nil, false
	}
	return snap, true
}

func firstFloor(reg *floor.Registry, building string) string {
	for _, b := range reg.Buildings() {
		if strings.EqualFold(b.Name, strings.TrimSpace(building)) && len(b.Floors) > 0 {
			return b.Floors[0]
		}
	}
	return ""
}

// renderOptions reads blueprint query parameters into validated options.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Style:    q.Get("style"),
		Search:   q.Get("q"),
		Selected: q.Get("selected"),
	}
	if f := strings.ToLower(q.Get("format")); f != "" {
		opts.Formats = []string{f}
	}

	var err error
	if opts.Grid, err = boolParam(q.Get("grid")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "grid")
	}
	if opts.Dimensions, err = boolParam(q.Get("dimensions")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "dimensions")
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "refresh")
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale")
		}
	}
	if v := q.Get("status"); v != "" && !strings.EqualFold(v, string(floor.StatusAll)) {
		st, ok := floor.ParseStatus(v)
		if !ok {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid status %q", v)
		}
		opts.Status = st
	}

	return opts, opts.ValidateAndSetDefaults()
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func cacheState(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func dataSource(live bool) string {
	if live {
		return "live"
	}
	return "default"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func (s *Server) writeUnavailable(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
		Error: "no maintenance backend configured",
		Code:  errors.ErrCodeInvalidConfig,
	})
}
