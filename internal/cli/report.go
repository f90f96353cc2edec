package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/pipeline"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
)

// reportCommand writes the status workbook for every registered floor.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write an XLSX status report for every floor",
		Long: `Write an XLSX status report for every floor.

The workbook has a Summary sheet with the status counts of each floor and one
sheet per floor listing its rooms. Floors whose room records could not be
fetched are reported with default data and marked as such.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache, offline)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			var snaps []*pipeline.Snapshot
			err = spin(cmd.Context(), cmd.ErrOrStderr(), "Loading floors...", func() error {
				var err error
				snaps, err = runner.LoadAll(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			data, cached, err := runner.Report(cmd.Context(), snaps)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, data); err != nil {
				return err
			}
			prog.done("report written", "floors", len(snaps), "bytes", len(data))

			out := cmd.OutOrStdout()
			var total reconcile.Stats
			live, warnings := 0, 0
			for _, s := range snaps {
				total.Total += s.Stats.Total
				total.Pending += s.Stats.Pending
				total.InProgress += s.Stats.InProgress
				total.Completed += s.Stats.Completed
				total.NoRequest += s.Stats.NoRequest
				if s.Live {
					live++
				}
				if s.Warning != "" {
					warnings++
				}
			}

			printSuccess(out, "Report covers %d floors", len(snaps))
			printFile(out, output)
			printStats(out, total, live == len(snaps))
			if warnings > 0 {
				printWarning(out, "%d floors use default data: the backend could not be reached", warnings)
			}
			printCacheState(out, cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "facilitymap-report.xlsx", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the backend and report default data")
	return cmd
}
