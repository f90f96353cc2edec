// Package pipeline loads floors and renders them, with caching.
//
// This package holds the load → render flow shared by the CLI, the terminal
// browser and the HTTP server, so every entry point reconciles and draws a
// floor the same way.
//
// # Stages
//
//  1. Load: generate the floor's static layout, fetch live room records and
//     reconcile them onto it. A failed fetch falls back to the generated
//     defaults with a warning.
//  2. Render: draw the layout in the requested formats (SVG, PNG, PDF, JSON,
//     DOT, XLSX). Artifacts are cached by layout content and render options.
//
// # Usage
//
//	client, _ := backend.New(backend.Options{BaseURL: url})
//	runner := pipeline.NewRunner(client, cache, nil, logger)
//	snap, err := runner.Load(ctx, "DFA BUILDING", "2ND FLOOR")
//	if err != nil {
//	    return err // only on cancellation
//	}
//	artifacts, hit, err := runner.Render(ctx, snap.Layout, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	    Grid:    true,
//	})
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facilitymap/pkg/cache"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/render/blueprint"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatXLSX = "xlsx"
)

// Style constants. Schematic switches svg, png and pdf to the Graphviz drawing.
const (
	StyleBlueprint = blueprint.StyleBlueprint
	StylePrint     = blueprint.StylePrint
	StyleSchematic = "schematic"
)

// DefaultStyle is the default visual style.
const DefaultStyle = StyleBlueprint

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatXLSX: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleBlueprint: true,
	StylePrint:     true,
	StyleSchematic: true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// =============================================================================
// Options - Render Configuration
// =============================================================================

// Options contains all configuration for rendering a floor.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats    []string     `json:"formats,omitempty"`
	Style      string       `json:"style,omitempty"`
	Grid       bool         `json:"grid,omitempty"`
	Dimensions bool         `json:"dimensions,omitempty"`
	Status     floor.Status `json:"status,omitempty"` // dim rooms with another status
	Search     string       `json:"search,omitempty"` // dim rooms not matching
	Selected   string       `json:"selected,omitempty"`
	Scale      float64      `json:"scale,omitempty"` // PNG resolution multiplier
	Refresh    bool         `json:"refresh,omitempty"`

	// Live marks the layout as reconciled against the backend. It only
	// changes the source column of the xlsx report.
	Live bool `json:"-"`

	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Snapshot is a loaded floor.
type Snapshot struct {
	Building string          `json:"building"`
	Floor    string          `json:"floor"`
	Layout   floor.Layout    `json:"layout"`
	Stats    reconcile.Stats `json:"stats"`
	// Live is true when backend records were merged onto the layout.
	Live bool `json:"live"`
	// Warning is set when the backend could not be reached.
	Warning  string        `json:"warning,omitempty"`
	Duration time.Duration `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: %s)", style, strings.Join(sortedKeys(ValidStyles), ", "))
	}
	return nil
}

// ValidateStatus checks a status filter. Empty and "all" disable filtering.
func ValidateStatus(st floor.Status) error {
	if st == "" || st == floor.StatusAll || st.Valid() {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid status filter: %q", st)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := ValidateStatus(o.Status); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsSchematic reports whether svg, png and pdf use the Graphviz drawing.
func (o *Options) IsSchematic() bool {
	return o.Style == StyleSchematic
}

// Filter returns the room filter the options describe.
func (o *Options) Filter() floor.Filter {
	return floor.Filter{Status: o.Status, Search: o.Search}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Style:      o.Style,
		Grid:       o.Grid,
		Dimensions: o.Dimensions,
		Status:     string(o.Status),
		Search:     strings.ToLower(strings.TrimSpace(o.Search)),
		Selected:   o.Selected,
		Scale:      o.Scale,
		Live:       o.Live,
	}
}
