package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
)

// roomsCommand prints the rooms of a floor with their maintenance status.
func (c *CLI) roomsCommand() *cobra.Command {
	var (
		offline bool
		status  string
		search  string
	)

	cmd := &cobra.Command{
		Use:   "rooms <building> <floor>",
		Short: "List the rooms of a floor with their maintenance status",
		Long: `List the rooms of a floor with their maintenance status.

Room records are fetched from the backend and merged onto the generated floor.
If the backend cannot be reached the built-in defaults are shown with a warning.

--status and --search narrow the table; the summary line always counts the
whole floor.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFloors,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			b, f, err := resolveFloor(floor.DefaultRegistry(), args[0], args[1])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), true, offline)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			snap, err := c.load(cmd.Context(), cmd.ErrOrStderr(), runner, b, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			filter := floor.Filter{Status: st, Search: search}
			printSnapshot(out, snap)
			fmt.Fprintln(out, roomTable(filter.Apply(snap.Layout.Rooms)))
			if filter.Active() {
				printDetail(out, "%d of %d spaces match", len(filter.Apply(snap.Layout.Rooms)), len(snap.Layout.Rooms))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the backend and show default data")
	cmd.Flags().StringVar(&status, "status", "", "only rooms with this status: pending, in_progress, completed, no_request")
	cmd.Flags().StringVar(&search, "search", "", "only rooms whose number, name or id contains this text")
	return cmd
}

// load fetches one floor, showing a spinner while the backend is queried.
func (c *CLI) load(ctx context.Context, w io.Writer, runner *pipeline.Runner, building, fl string) (*pipeline.Snapshot, error) {
	if runner.Offline() {
		return runner.Load(ctx, building, fl)
	}
	var snap *pipeline.Snapshot
	err := spin(ctx, w, "Loading "+floorLabel(building, fl)+"...", func() error {
		var err error
		snap, err = runner.Load(ctx, building, fl)
		return err
	})
	return snap, err
}

// printSnapshot prints the heading, warning and stats of a loaded floor.
func printSnapshot(w io.Writer, snap *pipeline.Snapshot) {
	fmt.Fprintln(w, StyleTitle.Render(floorLabel(snap.Building, snap.Floor)))
	if snap.Warning != "" {
		printWarning(w, "%s", snap.Warning)
	}
	printStats(w, snap.Stats, snap.Live)
}
