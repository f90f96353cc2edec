package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/facilitymap/pkg/config"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/view"
)

// fakeMaintenance serves the maintenance backend routes. Submissions answer
// submitStatus.
func fakeMaintenance(t *testing.T, submitStatus int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var posts atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rooms", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"A6","status":"completed","request_count":3}]`))
	})
	mux.HandleFunc("GET /requests", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("room_id") != "A4" {
			_, _ = w.Write([]byte(`{"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":7,"room":"A4","title":"Leaking tap","priority":"high","status":"in_progress","created_at":"2026-03-01T09:30:00Z"}]`))
	})
	mux.HandleFunc("POST /requests", func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("submit body: %v", err)
		}
		w.WriteHeader(submitStatus)
		if submitStatus < 300 {
			body["id"] = 101
			_ = json.NewEncoder(w).Encode(body)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &posts
}

func TestRequestsList(t *testing.T) {
	isolate(t)
	srv, _ := fakeMaintenance(t, http.StatusCreated)
	t.Setenv(config.EnvAPIURL, srv.URL)

	out, err := execute(t, "requests", "list", "A4")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Leaking tap", "In Progress", "1 requests"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "requests", "list", "A5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No requests for room A5") {
		t.Errorf("output = %q", out)
	}
}

func TestRequestsListNeedsBackend(t *testing.T) {
	isolate(t)
	_, err := execute(t, "requests", "list", "A4")
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestRequestsSubmit(t *testing.T) {
	isolate(t)
	srv, posts := fakeMaintenance(t, http.StatusCreated)
	t.Setenv(config.EnvAPIURL, srv.URL)

	out, err := execute(t, "requests", "submit", "A4", "--title", "  Broken window ", "--priority", "HIGH")
	if err != nil {
		t.Fatal(err)
	}
	if posts.Load() != 1 {
		t.Errorf("posted %d times", posts.Load())
	}
	for _, want := range []string{"Request filed for room A4", "101", "Broken window", "high", "Pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRequestsSubmitValidation(t *testing.T) {
	isolate(t)
	srv, posts := fakeMaintenance(t, http.StatusCreated)
	t.Setenv(config.EnvAPIURL, srv.URL)

	tests := []struct {
		name string
		args []string
	}{
		{"blank title", []string{"requests", "submit", "A4", "--title", "   "}},
		{"bad priority", []string{"requests", "submit", "A4", "--title", "x", "--priority", "urgent"}},
		{"bad room", []string{"requests", "submit", "../A4", "--title", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); errors.GetCode(err) != errors.ErrCodeInvalidInput {
				t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
	if posts.Load() != 0 {
		t.Errorf("invalid requests reached the backend %d times", posts.Load())
	}
}

func TestRequestsSubmitFailure(t *testing.T) {
	isolate(t)
	srv, posts := fakeMaintenance(t, http.StatusInternalServerError)
	t.Setenv(config.EnvAPIURL, srv.URL)

	out, err := execute(t, "requests", "submit", "A6", "--title", "Door jammed",
		"--building", "dfa building", "--floor", "2nd floor")
	if errors.GetCode(err) != errors.ErrCodeBackend {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeBackend)
	}
	if posts.Load() != 1 {
		t.Errorf("submission sent %d times, want exactly once", posts.Load())
	}
	for _, want := range []string{
		view.ErrSubmitFailed,
		"* local-",
		"Door jammed",
		// Live record says A6 has 3 requests; locally it gains one.
		"A6 is Pending with 4 requests",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
