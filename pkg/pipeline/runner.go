package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/facilitymap/pkg/cache"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/observability"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/report"
	"github.com/matzehuels/facilitymap/pkg/view"
)

// loadConcurrency bounds parallel fetches in LoadAll.
const loadConcurrency = 4

// RoomSource supplies live room records for a floor.
type RoomSource interface {
	FetchRooms(ctx context.Context, building, floor string) ([]reconcile.ServerRoom, error)
}

// Runner encapsulates loading and rendering with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner.
type Runner struct {
	Source   RoomSource
	Registry *floor.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
}

// NewRunner creates a runner over the default registry.
// A nil source means offline: floors show their generated defaults.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(source RoomSource, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:   source,
		Registry: floor.DefaultRegistry(),
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
	}
}

// Offline reports whether the runner has no backend.
func (r *Runner) Offline() bool { return r.Source == nil }

// =============================================================================
// Load
// =============================================================================

// Load generates a floor and merges live room records onto it. A failed fetch
// is not an error: the snapshot carries the generated defaults and a warning.
// Load only fails when ctx is done.
func (r *Runner) Load(ctx context.Context, building, fl string) (*Snapshot, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, building, fl)

	snap := &Snapshot{Building: building, Floor: fl}
	layout := r.Registry.Generate(building, fl)

	if r.Source != nil {
		records, err := r.Source.FetchRooms(ctx, building, fl)
		switch {
		case ctx.Err() != nil:
			observability.Pipeline().OnLoadComplete(ctx, building, fl, false, 0, time.Since(start), ctx.Err())
			return nil, ctx.Err()
		case err != nil:
			r.Logger.Warn("room fetch failed, using default layout", "building", building, "floor", fl, "error", err)
			snap.Warning = view.WarnRoomsUnavailable
		default:
			layout = reconcile.Reconcile(layout, records)
			snap.Live = len(records) > 0
		}
	}

	snap.Layout = layout
	snap.Stats = reconcile.Compute(layout.Rooms)
	snap.Duration = time.Since(start)

	r.Logger.Debug("loaded floor",
		"building", building,
		"floor", fl,
		"rooms", len(layout.Rooms),
		"live", snap.Live,
		"duration", snap.Duration)
	observability.Pipeline().OnLoadComplete(ctx, building, fl, snap.Live, len(layout.Rooms), snap.Duration, nil)

	return snap, nil
}

// LoadAll loads every registered floor, in registry order.
func (r *Runner) LoadAll(ctx context.Context) ([]*Snapshot, error) {
	type target struct{ building, floor string }
	var targets []target
	for _, b := range r.Registry.Buildings() {
		for _, f := range b.Floors {
			targets = append(targets, target{b.Name, f})
		}
	}

	snaps := make([]*Snapshot, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			s, err := r.Load(ctx, t.building, t.floor)
			if err != nil {
				return err
			}
			snaps[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// =============================================================================
// Render
// =============================================================================

// Render generates artifacts with caching. The bool reports whether every
// artifact came from the cache.
func (r *Runner) Render(ctx context.Context, layout floor.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutHash := cache.HashJSON(layout)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderLayout(ctx, layout, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("rendered floor",
		"floor", layout.Floor,
		"formats", opts.Formats,
		"duration", time.Since(start))

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Report builds the status workbook for snaps with caching.
func (r *Runner) Report(ctx context.Context, snaps []*Snapshot) ([]byte, bool, error) {
	floors := make([]report.Floor, len(snaps))
	hashes := make([]string, len(snaps))
	for i, s := range snaps {
		floors[i] = report.Floor{Layout: s.Layout, Live: s.Live}
		hashes[i] = cache.HashJSON(floors[i])
	}

	key := r.Keyer.ReportKey(hashes)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "report")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "report")

	data, err := report.Workbook(floors...)
	if err != nil {
		return nil, false, fmt.Errorf("report: %w", err)
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLReport); err == nil {
		observability.Cache().OnCacheSet(ctx, "report", len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
