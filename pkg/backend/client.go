package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/httputil"
	"github.com/matzehuels/facilitymap/pkg/observability"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
)

// Defaults for [Options].
const (
	DefaultRoomsPath    = "/rooms"
	DefaultRequestsPath = "/requests"
	DefaultTimeout      = 10 * time.Second
	DefaultAttempts     = 3
	DefaultRetryDelay   = 500 * time.Millisecond
)

// Options configures a [Client].
type Options struct {
	BaseURL      string
	RoomsPath    string
	RequestsPath string
	Timeout      time.Duration
	Headers      map[string]string

	// Attempts and RetryDelay control retries of reads.
	Attempts   int
	RetryDelay time.Duration

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.RoomsPath == "" {
		o.RoomsPath = DefaultRoomsPath
	}
	if o.RequestsPath == "" {
		o.RequestsPath = DefaultRequestsPath
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Client talks to the maintenance backend. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	opts   Options
	host   string
	logger *log.Logger
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	opts.BaseURL = strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if err := errors.ValidateURL(opts.BaseURL); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid backend URL")
	}
	opts.setDefaults()
	for _, p := range []string{opts.RoomsPath, opts.RequestsPath} {
		if err := errors.ValidatePath(p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid backend path")
		}
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid backend URL")
	}

	c := &Client{opts: opts, host: u.Host, logger: opts.Logger}
	c.http = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetLogger(opts.Logger).
		SetHeader("Accept", "application/json").
		SetHeaders(opts.Headers).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			observability.HTTP().OnRequest(r.Context(), r.Method, c.host, r.URL)
			return nil
		}).
		OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
			observability.HTTP().OnResponse(r.Request.Context(), r.Request.Method, c.host, r.Request.URL, r.StatusCode(), r.Time())
			return nil
		}).
		OnError(func(r *resty.Request, err error) {
			observability.HTTP().OnError(r.Context(), r.Method, c.host, r.URL, err)
		})
	return c, nil
}

// BaseURL returns the backend root all paths are resolved against.
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// FetchRooms returns the live room records for a floor. Records that fail to
// decode are dropped.
func (c *Client) FetchRooms(ctx context.Context, building, floor string) ([]reconcile.ServerRoom, error) {
	items, err := c.list(ctx, c.opts.RoomsPath, map[string]string{"building": building, "floor": floor})
	if err != nil {
		return nil, err
	}
	rooms := make([]reconcile.ServerRoom, 0, len(items))
	for i, raw := range items {
		var r reconcile.ServerRoom
		if err := json.Unmarshal(raw, &r); err != nil {
			c.logger.Debug("skipping room record", "index", i, "err", err)
			continue
		}
		rooms = append(rooms, r)
	}
	c.logger.Debug("fetched rooms", "building", building, "floor", floor, "records", len(rooms))
	return rooms, nil
}

// FetchRequests returns the requests filed against a room.
func (c *Client) FetchRequests(ctx context.Context, roomID string) ([]Request, error) {
	if err := errors.ValidateRoomID(roomID); err != nil {
		return nil, err
	}
	items, err := c.list(ctx, c.opts.RequestsPath, map[string]string{"room_id": roomID})
	if err != nil {
		return nil, err
	}
	reqs := make([]Request, 0, len(items))
	for i, raw := range items {
		var r Request
		if err := json.Unmarshal(raw, &r); err != nil {
			c.logger.Debug("skipping request record", "index", i, "err", err)
			continue
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// SubmitRequest validates n and posts it. The request is sent exactly once.
// When the backend answers without a usable body the returned request is
// built from the submitted fields.
func (c *Client) SubmitRequest(ctx context.Context, n NewRequest) (*Request, error) {
	n, err := n.Normalize()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(n.payload()).
		Post(c.opts.RequestsPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "failed to submit request")
	}
	if resp.IsError() {
		return nil, statusError(resp, "failed to submit request")
	}

	created := Request{
		Room:        reconcile.ID(n.Room),
		Title:       n.Title,
		Description: n.Description,
		Priority:    n.Priority,
		Status:      "pending",
	}
	if body := bytes.TrimSpace(resp.Body()); len(body) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			c.logger.Debug("unreadable submit response", "err", err)
		}
	}
	c.logger.Info("submitted request", "room", n.Room, "id", created.ID)
	return &created, nil
}

// list GETs path and returns the elements of the list it answers with.
func (c *Client) list(ctx context.Context, path string, query map[string]string) ([]json.RawMessage, error) {
	var body []byte
	err := httputil.Retry(ctx, c.opts.Attempts, c.opts.RetryDelay, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(path)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", path)}
		}
		if resp.IsError() {
			serr := statusError(resp, "GET "+path)
			if httputil.Transient(resp.StatusCode()) {
				return &httputil.RetryableError{Err: serr}
			}
			return serr
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, httputil.Unwrap(err)
	}
	return decodeList(body)
}

// decodeList accepts a bare array, an object with a "results" array, or an
// empty body.
func decodeList(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDecode, err, "invalid list response")
		}
		return items, nil
	case '{':
		var page struct {
			Results []json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDecode, err, "invalid list response")
		}
		return page.Results, nil
	default:
		return nil, errors.New(errors.ErrCodeDecode, "expected a JSON list, got %.20q", body)
	}
}

func statusError(resp *resty.Response, action string) error {
	if resp.StatusCode() == 429 {
		return errors.Wrap(errors.ErrCodeBackend, &errors.RateLimitedError{RetryAfter: retryAfter(resp)}, "%s", action)
	}
	detail := strings.TrimSpace(string(resp.Body()))
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}
	if detail == "" {
		return errors.New(errors.ErrCodeBackend, "%s: status %d", action, resp.StatusCode())
	}
	return errors.New(errors.ErrCodeBackend, "%s: status %d: %s", action, resp.StatusCode(), detail)
}

func retryAfter(resp *resty.Response) int {
	var s int
	_, _ = fmt.Sscanf(resp.Header().Get("Retry-After"), "%d", &s)
	return s
}
