// Package pkg provides the core libraries for Facilitymap campus floor maps.
//
// # Overview
//
// Facilitymap generates the floor layouts of the campus buildings from fixed
// dimensions, merges live room records from the maintenance backend onto them
// and draws the result with each room colored by its maintenance status. The
// pkg directory is organized into four main areas:
//
//  1. [floor] and [reconcile] - Domain logic (layouts, status merging, stats)
//  2. [backend] and [cache] - Infrastructure (HTTP client, artifact caches)
//  3. [render] - Drawing (blueprint SVG, Graphviz schematics, PNG/PDF)
//  4. [pipeline] - Orchestration (load → render) shared by CLI, TUI and API
//
// # Architecture
//
// The typical data flow through Facilitymap:
//
//	Registry (building, floor)
//	         ↓
//	    [floor] package (generate the static layout)
//	         ↓
//	    [backend] package (fetch live room records)
//	         ↓
//	    [reconcile] package (merge records onto rooms, count statuses)
//	         ↓
//	    [render] packages (blueprint / schematic)
//	         ↓
//	    SVG/PNG/PDF/JSON/DOT/XLSX output
//
// # Quick Start
//
// Generate a floor, merge backend records and draw it:
//
//	import (
//	    "github.com/matzehuels/facilitymap/pkg/backend"
//	    "github.com/matzehuels/facilitymap/pkg/floor"
//	    "github.com/matzehuels/facilitymap/pkg/reconcile"
//	    "github.com/matzehuels/facilitymap/pkg/render/blueprint"
//	)
//
//	// 1. Generate the layout
//	l := floor.Generate(floor.DFABuilding, floor.SecondFloor)
//
//	// 2. Fetch live records
//	client, _ := backend.New(backend.Options{BaseURL: "https://maintenance.example.edu/api"})
//	records, err := client.FetchRooms(ctx, l.Building, l.Floor)
//
//	// 3. Reconcile; on a failed fetch the defaults stand
//	if err == nil {
//	    l = reconcile.Reconcile(l, records)
//	}
//
//	// 4. Render to SVG
//	svg := blueprint.RenderSVG(l, blueprint.WithGrid())
//
// # Main Packages
//
// ## Domain Logic
//
// [floor] - Room and layout types, the building/floor registry with the
// campus plans, placement helpers, geometry checks and status/search filters.
//
// [reconcile] - Matches backend records to generated rooms by id, number or
// name, and overlays their status and request count. [reconcile.Compute]
// counts rooms per status.
//
// [view] - Immutable map state with reducers for navigation, selection, the
// request form and backend responses. Responses are tagged with a generation
// so stale fetches are dropped.
//
// ## Infrastructure
//
// [backend] - Resty client for the maintenance backend: room records,
// request lists and submissions. Reads are retried, submissions never.
//
// [cache] - Artifact caches: FileCache for the CLI, RedisCache and MongoCache
// for shared deployments, NullCache to disable caching.
//
// [config] - TOML file, .env and FACILITYMAP_* environment settings.
//
// [httputil] - Retry with backoff for transient HTTP failures.
//
// [observability] - Hooks for load, render, cache and HTTP events, with a
// charm log implementation.
//
// ## Visualization
//
// [render/blueprint] - SVG floor plans in blueprint and print styles, with
// grid, dimensions, legend, dimming and selection.
//
// [render/schematic] - Graphviz drawing of rooms and the hallways they open
// onto.
//
// [render] - Format conversion (SVG to PDF/PNG) via rsvg-convert.
//
// [report] - XLSX status workbook with a summary sheet and one sheet per floor.
//
// [pipeline] - Load and render with caching. Used by the CLI, the terminal
// browser and the HTTP server so every entry point behaves the same.
//
// # Common Workflows
//
// Filter and highlight:
//
//	f := floor.Filter{Status: floor.StatusPending, Search: "A"}
//	svg := blueprint.RenderSVG(l, blueprint.WithFilter(f), blueprint.WithSelected("A4"))
//
// Record a request the backend rejected:
//
//	l = reconcile.MarkPending(l, "A4")
//
// Write a status report:
//
//	data, _ := report.Workbook(report.Floor{Layout: l, Live: true})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/floor/...        # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [floor]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/floor
// [reconcile]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/reconcile
// [reconcile.Compute]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/reconcile#Compute
// [view]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/view
// [backend]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/backend
// [cache]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/config
// [httputil]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/render
// [render/blueprint]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/render/blueprint
// [render/schematic]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/render/schematic
// [report]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/report
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/facilitymap/pkg/pipeline
package pkg
