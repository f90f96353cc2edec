package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
)

// renderCommand creates the render command for drawing a floor.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		status     string
		noCache    bool
		offline    bool
	)
	opts := pipeline.Options{}
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render <building> <floor>",
		Short: "Render a floor plan to SVG, PNG, PDF, JSON, DOT or XLSX",
		Long: `Render a floor plan to SVG, PNG, PDF, JSON, DOT or XLSX.

Live room records are merged onto the generated floor before drawing. Styles:
  blueprint  dark drafting sheet (default)
  print      white background for paper
  schematic  Graphviz drawing of rooms and the hallways they open onto

PNG and PDF of the blueprint styles need rsvg-convert (librsvg) on PATH.

Rooms that do not match --status or --search are dimmed, not removed.
Artifacts are cached by floor content and options; --no-cache disables that.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFloors,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			opts.Status = st
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			b, f, err := resolveFloor(floor.DefaultRegistry(), args[0], args[1])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache, offline)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			snap, err := c.load(cmd.Context(), cmd.ErrOrStderr(), runner, b, f)
			if err != nil {
				return err
			}

			opts.Live = snap.Live
			opts.Logger = c.Logger
			artifacts, cached, err := runner.Render(cmd.Context(), snap.Layout, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", floorLabel(b, f), err)
			}

			out := cmd.OutOrStdout()
			base := basePath(output, slug(b, f))
			var written []string
			for _, format := range opts.Formats {
				path := base + "." + format
				if len(opts.Formats) == 1 && output != "" {
					path = output
				}
				if err := writeOutput(out, path, artifacts[format]); err != nil {
					return err
				}
				written = append(written, path)
			}
			prog.done("rendered", "floor", floorLabel(b, f), "formats", strings.Join(opts.Formats, ","))

			printSuccess(out, "Rendered %s", floorLabel(b, f))
			if snap.Warning != "" {
				printWarning(out, "%s", snap.Warning)
			}
			for _, p := range written {
				printFile(out, p)
			}
			printStats(out, snap.Stats, snap.Live)
			printCacheState(out, cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, xlsx (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: blueprint (default), print, schematic")
	cmd.Flags().BoolVar(&opts.Grid, "grid", false, "draw the drafting grid")
	cmd.Flags().BoolVar(&opts.Dimensions, "dimensions", false, "label room widths in feet")
	cmd.Flags().StringVar(&status, "status", "", "dim rooms without this status")
	cmd.Flags().StringVar(&opts.Search, "search", "", "dim rooms not matching this text")
	cmd.Flags().StringVar(&opts.Selected, "selected", "", "highlight the room with this id")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render and overwrite cached artifacts")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the backend and draw default data")

	return cmd
}

// basePath derives the stem for output files. Without output it is def. A
// known format extension on output is stripped.
func basePath(output, def string) string {
	if output == "" {
		return def
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
